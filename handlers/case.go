package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/services"
)

// CaseHandler serves the case CRUD and customer link endpoints.
type CaseHandler struct {
	Cases *services.CaseService
	Tasks *services.TaskService
}

func NewCaseHandler(cases *services.CaseService, tasks *services.TaskService) *CaseHandler {
	return &CaseHandler{Cases: cases, Tasks: tasks}
}

// List handles GET /api/cases?q=
func (h *CaseHandler) List(c echo.Context) error {
	cases, err := h.Cases.List(c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cases)
}

// Get handles GET /api/cases/:id
func (h *CaseHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	caseRow, err := h.Cases.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caseRow)
}

// Create handles POST /api/cases
func (h *CaseHandler) Create(c echo.Context) error {
	var input services.CaseInput
	if err := c.Bind(&input); err != nil {
		return apperrors.Validation("invalid request body")
	}

	caseRow, err := h.Cases.Create(input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, caseRow)
}

// caseUpdateRequest wraps CaseInput so an absent customer_ids key can be
// told apart from an explicit empty list.
type caseUpdateRequest struct {
	services.CaseInput
	CustomerIDs *[]uint `json:"customer_ids"`
}

// Update handles PUT /api/cases/:id
func (h *CaseHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req caseUpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid request body")
	}

	input := req.CaseInput
	if req.CustomerIDs != nil {
		input.CustomerIDs = *req.CustomerIDs
		input.HasCustomerIDs = true
	}

	caseRow, err := h.Cases.Update(id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, caseRow)
}

// Details handles GET /api/cases/:id/details
func (h *CaseHandler) Details(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	details, err := h.Cases.Details(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// Customers handles GET /api/cases/:id/customers
func (h *CaseHandler) Customers(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	customers, err := h.Cases.Customers(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// SetCustomers handles PUT /api/cases/:id/customers
func (h *CaseHandler) SetCustomers(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	// Case must exist before links are replaced
	if _, err := h.Cases.Get(id); err != nil {
		return err
	}

	var body struct {
		CustomerIDs []uint `json:"customer_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return apperrors.Validation("invalid request body")
	}

	if err := h.Cases.SetCustomers(id, body.CustomerIDs); err != nil {
		return err
	}

	customers, err := h.Cases.Customers(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// CreateTask handles POST /api/cases/:id/tasks
func (h *CaseHandler) CreateTask(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.Cases.Get(id); err != nil {
		return err
	}

	var input services.TaskInput
	if err := c.Bind(&input); err != nil {
		return apperrors.Validation("invalid request body")
	}
	input.CaseID = &id

	task, err := h.Tasks.Create(input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}
