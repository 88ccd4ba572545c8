package services

import (
	"strings"

	"gorm.io/gorm"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/models"
)

// TaskService handles calendar task operations.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// TaskInput is the form payload for creating a task.
type TaskInput struct {
	Title    string `json:"title"`
	StartISO string `json:"start_iso"`
	EndISO   string `json:"end_iso"`
	Notes    string `json:"notes"`
	CaseID   *uint  `json:"case_id"`
}

// List returns all tasks ordered by start time ascending.
func (s *TaskService) List() ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.Order("start_iso ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Create inserts a task, optionally associated with a case.
func (s *TaskService) Create(input TaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" || input.StartISO == "" || input.EndISO == "" {
		return nil, apperrors.Validation("title, start_iso, end_iso required")
	}

	task := models.Task{
		Title:    input.Title,
		StartISO: input.StartISO,
		EndISO:   input.EndISO,
		Notes:    SanitizeNotes(input.Notes),
		CaseID:   input.CaseID,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}
