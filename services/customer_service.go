package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/models"
)

// CustomerService handles customer CRUD against the injected store handle.
type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// CustomerInput is the form payload for creating or updating a customer.
type CustomerInput struct {
	CustomerID    string `json:"customer_id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Status        string `json:"status"`
	Segment       string `json:"segment"`
	Owner         string `json:"owner"`
	Notes         string `json:"notes"`
}

// List returns customers ordered by last update, optionally filtered by a
// case-insensitive substring over code, name, contact person and email.
func (s *CustomerService) List(q string) ([]models.Customer, error) {
	var customers []models.Customer
	query := s.db.Order("updated_at DESC")

	q = strings.TrimSpace(q)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"customer_id LIKE ? OR name LIKE ? OR contact_person LIKE ? OR email LIKE ?",
			like, like, like, like,
		)
	}

	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// Get returns a customer by internal id.
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Not found")
		}
		return nil, err
	}
	return &customer, nil
}

// Create inserts a customer. When no code is supplied the next unused
// integer string is assigned. Known gap: the code computation is not safe
// under concurrent creation (last writer may collide and hit the unique
// index).
func (s *CustomerService) Create(input CustomerInput) (*models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("name required")
	}

	code := strings.TrimSpace(input.CustomerID)
	if code == "" {
		next, err := s.nextCustomerCode()
		if err != nil {
			return nil, err
		}
		code = next
	}

	status := input.Status
	if status == "" {
		status = models.CustomerStatusActive
	}

	customer := models.Customer{
		CustomerID:    code,
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Status:        status,
		Segment:       input.Segment,
		Owner:         input.Owner,
		Notes:         SanitizeNotes(input.Notes),
	}
	if err := s.db.Create(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("customer_id %s already exists", code)
		}
		return nil, err
	}
	return &customer, nil
}

// Update replaces the mutable fields of a customer.
func (s *CustomerService) Update(id uint, input CustomerInput) (*models.Customer, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.CustomerID) == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.Validation("customer_id and name required")
	}

	status := input.Status
	if status == "" {
		status = models.CustomerStatusActive
	}

	updates := map[string]interface{}{
		"customer_id":    input.CustomerID,
		"name":           input.Name,
		"contact_person": input.ContactPerson,
		"email":          input.Email,
		"phone":          input.Phone,
		"status":         status,
		"segment":        input.Segment,
		"owner":          input.Owner,
		"notes":          SanitizeNotes(input.Notes),
	}
	if err := s.db.Model(customer).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("customer_id %s already exists", input.CustomerID)
		}
		return nil, err
	}

	return s.Get(id)
}

// CustomerDetails bundles a customer with its cases. Cases come from the
// link table; when the customer has no links, cases matching the
// customer's exact name are used for display instead.
type CustomerDetails struct {
	Customer models.Customer `json:"customer"`
	Cases    []models.Case   `json:"cases"`
}

func (s *CustomerService) Details(id uint) (*CustomerDetails, error) {
	customer, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var cases []models.Case
	err = s.db.
		Joins("JOIN case_customers cc ON cc.case_id = cases.id").
		Where("cc.customer_id = ?", id).
		Order("cases.updated_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, err
	}

	if len(cases) == 0 && customer.Name != "" {
		if err := s.db.
			Where("client_name = ?", customer.Name).
			Order("updated_at DESC").
			Find(&cases).Error; err != nil {
			return nil, err
		}
	}
	if cases == nil {
		cases = []models.Case{}
	}

	return &CustomerDetails{Customer: *customer, Cases: cases}, nil
}

// nextCustomerCode picks the next free numeric code from both the table's
// autoincrement sequence and the largest existing numeric code, whichever
// is larger. Manually assigned codes above the sequence are thus skipped
// over instead of collided with.
func (s *CustomerService) nextCustomerCode() (string, error) {
	var seq int64
	row := s.db.Raw("SELECT seq FROM sqlite_sequence WHERE name = 'customers'").Row()
	if err := row.Scan(&seq); err != nil {
		seq = 0
	}

	var maxCode int64
	row = s.db.Raw("SELECT COALESCE(MAX(CAST(customer_id AS INTEGER)), 0) FROM customers").Row()
	if err := row.Scan(&maxCode); err != nil {
		maxCode = 0
	}

	next := seq + 1
	if maxCode+1 > next {
		next = maxCode + 1
	}
	return fmt.Sprintf("%d", next), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
