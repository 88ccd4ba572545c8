package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"tech_office_cms_go/services"
	"tech_office_cms_go/services/diavgeia"
)

// ReportHandler serves the export and summary endpoints.
type ReportHandler struct {
	Reports *services.ReportService
	Cases   *services.CaseService
	Links   *diavgeia.LinkService
}

func NewReportHandler(reports *services.ReportService, cases *services.CaseService, links *diavgeia.LinkService) *ReportHandler {
	return &ReportHandler{Reports: reports, Cases: cases, Links: links}
}

// ExportCases handles GET /api/reports/cases/export
func (h *ReportHandler) ExportCases(c echo.Context) error {
	buf, err := h.Reports.ExportWorkbook()
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("office-export-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// CaseReport handles GET /api/cases/:id/report
func (h *ReportHandler) CaseReport(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	details, err := h.Cases.Details(id)
	if err != nil {
		return err
	}
	links, err := h.Links.ListForCase(id)
	if err != nil {
		return err
	}

	html, err := services.CaseSummaryHTML(services.CaseSummaryData{
		Case:      details.Case,
		Customers: details.Customers,
		Tasks:     details.Tasks,
		Decisions: links,
	})
	if err != nil {
		return err
	}

	pdf, err := services.GeneratePDF(html, services.DefaultPDFOptions())
	if err != nil {
		return err
	}

	fileName := services.SanitizeName(details.Case.CaseNumber) + "-summary.pdf"
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, fileName))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
