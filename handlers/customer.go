package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/apperrors"
	"tech_office_cms_go/services"
)

// CustomerHandler serves the customer CRUD endpoints.
type CustomerHandler struct {
	Customers *services.CustomerService
}

func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Customers: customers}
}

// List handles GET /api/customers?q=
func (h *CustomerHandler) List(c echo.Context) error {
	customers, err := h.Customers.List(c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customers)
}

// Create handles POST /api/customers
func (h *CustomerHandler) Create(c echo.Context) error {
	var input services.CustomerInput
	if err := c.Bind(&input); err != nil {
		return apperrors.Validation("invalid request body")
	}

	customer, err := h.Customers.Create(input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customer)
}

// Update handles PUT /api/customers/:id
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var input services.CustomerInput
	if err := c.Bind(&input); err != nil {
		return apperrors.Validation("invalid request body")
	}

	customer, err := h.Customers.Update(id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Details handles GET /api/customers/:id/details
func (h *CustomerHandler) Details(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	details, err := h.Customers.Details(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}
