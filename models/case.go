package models

import "time"

// Case status constants. Status is free text; these are the two values
// the application itself assigns or filters on.
const (
	CaseStatusOpen      = "Open"
	CaseStatusCompleted = "Completed"
)

// Case represents an office case/file. ClientName is denormalized on
// purpose: customer association is carried by CaseCustomer links, with an
// exact-name fallback when no links exist.
type Case struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CaseNumber      string    `gorm:"column:case_number;not null;uniqueIndex" json:"case_number"`
	ClientName      string    `gorm:"not null" json:"client_name"`
	ReferenceNumber string    `json:"reference_number"`
	CaseDate        string    `json:"case_date"`
	Notes           string    `json:"notes"`
	Status          string    `gorm:"default:Open" json:"status"`
	DueDate         string    `json:"due_date"`
	NasFolderPath   string    `gorm:"column:nas_folder_path" json:"nas_folder_path"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for Case model
func (Case) TableName() string {
	return "cases"
}

// CaseCustomer links a case to a customer (many-to-many junction).
type CaseCustomer struct {
	CaseID     uint `gorm:"primarykey;autoIncrement:false" json:"case_id"`
	CustomerID uint `gorm:"primarykey;autoIncrement:false" json:"customer_id"`
}

// TableName specifies the table name for CaseCustomer model
func (CaseCustomer) TableName() string {
	return "case_customers"
}
