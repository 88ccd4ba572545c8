package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"tech_office_cms_go/models"
	"tech_office_cms_go/services"
)

// DashboardHandler serves the landing metrics.
type DashboardHandler struct {
	DB           *gorm.DB
	Dialer       services.ShareDialer
	CompletedDir string
}

func NewDashboardHandler(db *gorm.DB, dialer services.ShareDialer, completedDir string) *DashboardHandler {
	return &DashboardHandler{DB: db, Dialer: dialer, CompletedDir: completedDir}
}

// Metrics handles GET /api/dashboard/metrics. The completed-cases count
// comes from the share's completed directory and degrades to 0 when the
// share is unreachable or the folder does not exist yet.
func (h *DashboardHandler) Metrics(c echo.Context) error {
	var totalCustomers int64
	if err := h.DB.Model(&models.Customer{}).Count(&totalCustomers).Error; err != nil {
		return err
	}

	var activeCases int64
	if err := h.DB.Model(&models.Case{}).
		Where("status != ?", models.CaseStatusCompleted).
		Count(&activeCases).Error; err != nil {
		return err
	}

	completedCases := 0
	if share, err := h.Dialer.Dial(); err == nil {
		if names, err := share.List(c.Request().Context(), services.JoinSharePath(h.CompletedDir)); err == nil {
			completedCases = len(names)
		}
		share.Close()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"totalCustomers": totalCustomers,
		"activeCases":    activeCases,
		"completedCases": completedCases,
	})
}
