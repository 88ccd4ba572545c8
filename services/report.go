package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"tech_office_cms_go/models"
	"tech_office_cms_go/services/diavgeia"
)

// ReportService builds the export artifacts promised by the Reports page:
// an Excel workbook of cases and customers, and a printable case summary.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// ExportWorkbook builds an Excel workbook with a Cases sheet and a
// Customers sheet.
func (s *ReportService) ExportWorkbook() (*bytes.Buffer, error) {
	var cases []models.Case
	if err := s.db.Order("updated_at DESC").Find(&cases).Error; err != nil {
		return nil, err
	}
	var customers []models.Customer
	if err := s.db.Order("updated_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetCases := "Cases"
	f.SetSheetName("Sheet1", sheetCases)

	caseHeaders := []string{"Case Number", "Client", "Reference", "Case Date", "Status", "Due Date", "Folder", "Updated"}
	for i, header := range caseHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetCases, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheetCases, "A1", "H1", headerStyle)
	f.SetColWidth(sheetCases, "A", "H", 20)

	for row, c := range cases {
		values := []interface{}{
			c.CaseNumber, c.ClientName, c.ReferenceNumber, c.CaseDate,
			c.Status, c.DueDate, c.NasFolderPath, c.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetCases, cell, v)
		}
	}

	sheetCustomers := "Customers"
	f.NewSheet(sheetCustomers)

	customerHeaders := []string{"Code", "Name", "Contact Person", "Email", "Phone", "Status", "Segment", "Owner", "Updated"}
	for i, header := range customerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetCustomers, cell, header)
	}
	f.SetCellStyle(sheetCustomers, "A1", "I1", headerStyle)
	f.SetColWidth(sheetCustomers, "A", "I", 20)

	for row, cu := range customers {
		values := []interface{}{
			cu.CustomerID, cu.Name, cu.ContactPerson, cu.Email, cu.Phone,
			cu.Status, cu.Segment, cu.Owner, cu.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetCustomers, cell, v)
		}
	}

	return f.WriteToBuffer()
}

var caseSummaryTmpl = template.Must(template.New("case_summary").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #222; }
h1 { font-size: 20px; border-bottom: 2px solid #444; padding-bottom: 6px; }
h2 { font-size: 14px; margin-top: 24px; }
table { width: 100%; border-collapse: collapse; font-size: 11px; }
th, td { border: 1px solid #ccc; padding: 5px 8px; text-align: left; }
th { background: #f0f0f0; }
.meta td:first-child { font-weight: bold; width: 160px; }
</style>
</head>
<body>
<h1>Case {{.Case.CaseNumber}} — {{.Case.ClientName}}</h1>
<table class="meta">
<tr><td>Status</td><td>{{.Case.Status}}</td></tr>
<tr><td>Reference</td><td>{{.Case.ReferenceNumber}}</td></tr>
<tr><td>Case date</td><td>{{.Case.CaseDate}}</td></tr>
<tr><td>Due date</td><td>{{.Case.DueDate}}</td></tr>
<tr><td>Folder</td><td>{{.Case.NasFolderPath}}</td></tr>
<tr><td>Notes</td><td>{{.Case.Notes}}</td></tr>
</table>

<h2>Customers</h2>
<table>
<tr><th>Code</th><th>Name</th><th>Contact</th><th>Email</th><th>Phone</th></tr>
{{range .Customers}}<tr><td>{{.CustomerID}}</td><td>{{.Name}}</td><td>{{.ContactPerson}}</td><td>{{.Email}}</td><td>{{.Phone}}</td></tr>
{{end}}</table>

<h2>Tasks</h2>
<table>
<tr><th>Title</th><th>Start</th><th>End</th><th>Notes</th></tr>
{{range .Tasks}}<tr><td>{{.Title}}</td><td>{{.StartISO}}</td><td>{{.EndISO}}</td><td>{{.Notes}}</td></tr>
{{end}}</table>

<h2>Linked Diavgeia decisions</h2>
<table>
<tr><th>ADA</th><th>Subject</th><th>Organization</th><th>Issued</th><th>Link notes</th></tr>
{{range .Decisions}}<tr><td>{{.Decision.ADA}}</td><td>{{.Decision.Subject}}</td><td>{{.Decision.OrganizationLabel}}</td><td>{{.Decision.IssueDate}}</td><td>{{.Notes}}</td></tr>
{{end}}</table>
</body>
</html>`))

// CaseSummaryData feeds the printable case summary template.
type CaseSummaryData struct {
	Case      models.Case
	Customers []models.Customer
	Tasks     []models.Task
	Decisions []diavgeia.LinkedDecision
}

// CaseSummaryHTML renders the case summary report body.
func CaseSummaryHTML(data CaseSummaryData) (string, error) {
	var buf bytes.Buffer
	if err := caseSummaryTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render case summary: %w", err)
	}
	return buf.String(), nil
}
