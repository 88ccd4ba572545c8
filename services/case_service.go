package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/models"
)

// CaseService handles case CRUD, customer links and folder path
// derivation against the injected store handle.
type CaseService struct {
	db      *gorm.DB
	baseDir string
}

func NewCaseService(db *gorm.DB, nasBaseDir string) *CaseService {
	return &CaseService{db: db, baseDir: nasBaseDir}
}

// CaseInput is the form payload for creating or updating a case.
type CaseInput struct {
	CaseNumber      string `json:"case_number"`
	ClientName      string `json:"client_name"`
	ReferenceNumber string `json:"reference_number"`
	CaseDate        string `json:"case_date"`
	Notes           string `json:"notes"`
	Status          string `json:"status"`
	DueDate         string `json:"due_date"`
	CustomerIDs     []uint `json:"customer_ids"`
	// HasCustomerIDs distinguishes an absent customer_ids key from an
	// explicit empty list on update.
	HasCustomerIDs bool `json:"-"`
}

// List returns cases ordered by last update, optionally filtered by a
// substring over case number, client name and reference number.
func (s *CaseService) List(q string) ([]models.Case, error) {
	var cases []models.Case
	query := s.db.Order("updated_at DESC")

	q = strings.TrimSpace(q)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where(
			"case_number LIKE ? OR client_name LIKE ? OR reference_number LIKE ?",
			like, like, like,
		)
	}

	if err := query.Find(&cases).Error; err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []models.Case{}
	}
	return cases, nil
}

// Get returns a case by internal id.
func (s *CaseService) Get(id uint) (*models.Case, error) {
	var c models.Case
	if err := s.db.First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Not found")
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a case. The share folder path is derived from the case
// number and client name. When no explicit customer links are given, a
// customer whose name exactly matches the client name is linked instead.
func (s *CaseService) Create(input CaseInput) (*models.Case, error) {
	if strings.TrimSpace(input.CaseNumber) == "" || strings.TrimSpace(input.ClientName) == "" {
		return nil, apperrors.Validation("case_number and client_name required")
	}

	status := input.Status
	if status == "" {
		status = models.CaseStatusOpen
	}

	c := models.Case{
		CaseNumber:      input.CaseNumber,
		ClientName:      input.ClientName,
		ReferenceNumber: input.ReferenceNumber,
		CaseDate:        input.CaseDate,
		Notes:           SanitizeNotes(input.Notes),
		Status:          status,
		DueDate:         input.DueDate,
		NasFolderPath:   JoinSharePath(s.baseDir, DefaultCaseFolder(input.CaseNumber, input.ClientName)),
	}
	if err := s.db.Create(&c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("case_number %s already exists", input.CaseNumber)
		}
		return nil, err
	}

	if len(input.CustomerIDs) > 0 {
		if err := s.SetCustomers(c.ID, input.CustomerIDs); err != nil {
			return nil, err
		}
	} else {
		var match models.Customer
		err := s.db.Where("name = ?", input.ClientName).First(&match).Error
		if err == nil {
			if err := s.SetCustomers(c.ID, []uint{match.ID}); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return s.Get(c.ID)
}

// Update replaces the mutable fields of a case, recomputing the share
// folder path. Customer links are set-replaced only when the payload
// carried a customer_ids key.
func (s *CaseService) Update(id uint, input CaseInput) (*models.Case, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.CaseNumber) == "" || strings.TrimSpace(input.ClientName) == "" {
		return nil, apperrors.Validation("case_number and client_name required")
	}

	status := input.Status
	if status == "" {
		status = c.Status
	}

	updates := map[string]interface{}{
		"case_number":      input.CaseNumber,
		"client_name":      input.ClientName,
		"reference_number": input.ReferenceNumber,
		"case_date":        input.CaseDate,
		"notes":            SanitizeNotes(input.Notes),
		"status":           status,
		"due_date":         input.DueDate,
		"nas_folder_path":  JoinSharePath(s.baseDir, DefaultCaseFolder(input.CaseNumber, input.ClientName)),
	}
	if err := s.db.Model(c).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("case_number %s already exists", input.CaseNumber)
		}
		return nil, err
	}

	if input.HasCustomerIDs {
		if err := s.SetCustomers(id, input.CustomerIDs); err != nil {
			return nil, err
		}
	}

	return s.Get(id)
}

// SetCustomers replaces the customer link set for a case: all prior links
// are deleted and the new set inserted in one transaction, so concurrent
// readers never observe a half-written set.
func (s *CaseService) SetCustomers(caseID uint, customerIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", caseID).Delete(&models.CaseCustomer{}).Error; err != nil {
			return err
		}
		for _, customerID := range customerIDs {
			link := models.CaseCustomer{CaseID: caseID, CustomerID: customerID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Customers resolves the customers of a case: explicit links first, exact
// client-name match only when zero links exist.
func (s *CaseService) Customers(caseID uint) ([]models.Customer, error) {
	c, err := s.Get(caseID)
	if err != nil {
		return nil, err
	}

	var customers []models.Customer
	err = s.db.
		Joins("JOIN case_customers cc ON cc.customer_id = customers.id").
		Where("cc.case_id = ?", caseID).
		Order("customers.name").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}

	if len(customers) == 0 && c.ClientName != "" {
		if err := s.db.Where("name = ?", c.ClientName).Find(&customers).Error; err != nil {
			return nil, err
		}
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// CaseDetails bundles a case with its resolved customers and tasks.
type CaseDetails struct {
	Case      models.Case       `json:"case"`
	Customers []models.Customer `json:"customers"`
	Tasks     []models.Task     `json:"tasks"`
}

func (s *CaseService) Details(id uint) (*CaseDetails, error) {
	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	customers, err := s.Customers(id)
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := s.db.Where("case_id = ?", id).Order("start_iso ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	return &CaseDetails{Case: *c, Customers: customers, Tasks: tasks}, nil
}
