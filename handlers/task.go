package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/services"
)

// TaskHandler serves the standalone task endpoints.
type TaskHandler struct {
	Tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{Tasks: tasks}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.Tasks.List()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(c echo.Context) error {
	var input services.TaskInput
	if err := c.Bind(&input); err != nil {
		return apperrors.Validation("invalid request body")
	}

	task, err := h.Tasks.Create(input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}
