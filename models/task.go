package models

import "time"

// Task is a calendar entry. Start/end are ISO-8601 instants stored as
// text, which keeps lexicographic ordering equal to chronological
// ordering. CaseID is a weak reference: association only, may be nil.
type Task struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	StartISO       string     `gorm:"column:start_iso;not null" json:"start_iso"`
	EndISO         string     `gorm:"column:end_iso;not null" json:"end_iso"`
	Notes          string     `json:"notes"`
	CaseID         *uint      `gorm:"index" json:"case_id"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}
