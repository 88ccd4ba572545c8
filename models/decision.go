package models

import "time"

// Decision is a locally cached copy of a Diavgeia decision. The remote
// registry stays authoritative for content; ADA uniquely identifies a
// decision. Structured payload parts are stored as serialized JSON text
// and default to empty structures, never null.
type Decision struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	ADA                 string    `gorm:"column:ada;not null;uniqueIndex" json:"ada"`
	Subject             string    `json:"subject"`
	ProtocolNumber      string    `json:"protocol_number"`
	DecisionTypeID      string    `gorm:"column:decision_type_id" json:"decision_type_id"`
	OrganizationID      string    `gorm:"column:organization_id;index" json:"organization_id"`
	OrganizationLabel   string    `json:"organization_label"`
	IssueDate           string    `gorm:"index" json:"issue_date"`
	DocumentURL         string    `gorm:"column:document_url" json:"document_url"`
	Status              string    `json:"status"`
	SubmitterUID        string    `gorm:"column:submitter_uid" json:"submitter_uid"`
	UnitUID             string    `gorm:"column:unit_uid" json:"unit_uid"`
	ThematicCategoryIDs string    `gorm:"column:thematic_category_ids" json:"thematic_category_ids"`
	Attachments         string    `json:"attachments"`
	ExtraFieldValues    string    `gorm:"column:extra_field_values" json:"extra_field_values"`
	PrivateData         string    `gorm:"column:private_data" json:"private_data"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	LastFetchedAt       time.Time `gorm:"column:last_fetched_at" json:"last_fetched_at"`
}

// TableName specifies the table name for Decision model
func (Decision) TableName() string {
	return "diavgeia_decisions"
}

// CaseDecisionLink ties a cached decision to a case with optional notes.
// A decision must already be cached before a link referencing it is
// created; the service layer enforces this.
type CaseDecisionLink struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CaseID      uint      `gorm:"not null;index" json:"case_id"`
	DecisionADA string    `gorm:"column:decision_ada;not null;index" json:"decision_ada"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for CaseDecisionLink model
func (CaseDecisionLink) TableName() string {
	return "case_diavgeia_links"
}
