package handlers

import (
	"github.com/labstack/echo/v4"
)

// Handlers bundles the route handlers for registration.
type Handlers struct {
	Cases     *CaseHandler
	Customers *CustomerHandler
	Tasks     *TaskHandler
	Files     *FileHandler
	Dashboard *DashboardHandler
	Diavgeia  *DiavgeiaHandler
	Reports   *ReportHandler
}

// RegisterRoutes mounts the JSON API under /api.
func RegisterRoutes(e *echo.Echo, h *Handlers) {
	api := e.Group("/api")

	api.GET("/health", HealthHandler)

	api.GET("/cases", h.Cases.List)
	api.POST("/cases", h.Cases.Create)
	api.GET("/cases/:id", h.Cases.Get)
	api.PUT("/cases/:id", h.Cases.Update)
	api.GET("/cases/:id/details", h.Cases.Details)
	api.GET("/cases/:id/customers", h.Cases.Customers)
	api.PUT("/cases/:id/customers", h.Cases.SetCustomers)
	api.POST("/cases/:id/tasks", h.Cases.CreateTask)

	api.POST("/cases/:id/files/ensure-folder", h.Files.EnsureFolder)
	api.GET("/cases/:id/files", h.Files.List)
	api.POST("/cases/:id/files/upload", h.Files.Upload)
	api.GET("/cases/:id/files/download", h.Files.Download)

	api.GET("/customers", h.Customers.List)
	api.POST("/customers", h.Customers.Create)
	api.PUT("/customers/:id", h.Customers.Update)
	api.GET("/customers/:id/details", h.Customers.Details)

	api.GET("/tasks", h.Tasks.List)
	api.POST("/tasks", h.Tasks.Create)

	api.GET("/dashboard/metrics", h.Dashboard.Metrics)

	api.GET("/diavgeia/search", h.Diavgeia.Search)
	api.GET("/diavgeia/decisions/:ada", h.Diavgeia.GetDecision)
	api.POST("/diavgeia/fetch/:ada", h.Diavgeia.Fetch)
	api.GET("/diavgeia/stats", h.Diavgeia.Stats)
	api.POST("/cases/:id/diavgeia-links", h.Diavgeia.CreateLink)
	api.GET("/cases/:id/diavgeia-links", h.Diavgeia.ListLinks)
	api.DELETE("/cases/:id/diavgeia-links/:linkId", h.Diavgeia.DeleteLink)

	api.GET("/reports/cases/export", h.Reports.ExportCases)
	api.GET("/cases/:id/report", h.Reports.CaseReport)
}
