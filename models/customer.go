package models

import "time"

// Customer status constants
const (
	CustomerStatusActive   = "Active"
	CustomerStatusLead     = "Lead"
	CustomerStatusInactive = "Inactive"
)

// Customer represents a client of the office. CustomerID is the
// human-facing code; it is auto-numbered when not supplied on creation.
type Customer struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CustomerID    string    `gorm:"column:customer_id;not null;uniqueIndex" json:"customer_id"`
	Name          string    `gorm:"not null" json:"name"`
	ContactPerson string    `json:"contact_person"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Status        string    `gorm:"default:Active" json:"status"`
	Segment       string    `json:"segment"`
	Owner         string    `json:"owner"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for Customer model
func (Customer) TableName() string {
	return "customers"
}
