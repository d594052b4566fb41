package pdf

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"tasklens/internal/models"
)

// Generator renders the task-set snapshot as a PDF.
type Generator interface {
	TaskSummary(w io.Writer, snapshot models.ExportSnapshot, stats models.TaskStats) error
}

// ReportGenerator is the gofpdf-backed implementation. FontPath may point to
// a TTF for non-latin task names; when empty the built-in Helvetica is used.
type ReportGenerator struct {
	FontPath string
	Author   string
	fontName string
}

func NewReportGenerator(fontPath, author string) *ReportGenerator {
	g := &ReportGenerator{FontPath: fontPath, Author: author, fontName: "Helvetica"}
	if fontPath != "" {
		g.fontName = "Custom"
	}
	return g
}

func (g *ReportGenerator) TaskSummary(w io.Writer, snapshot models.ExportSnapshot, stats models.TaskStats) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task Report", false)
	if g.Author != "" {
		pdf.SetAuthor(g.Author, false)
	}
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	if g.FontPath != "" {
		pdf.AddUTF8Font(g.fontName, "", g.FontPath)
		pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
	}
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "Task Report", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 7, "Generated "+snapshot.ExportDate.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	g.sectionTitle(pdf, "Overview")
	g.kvLine(pdf, "Total tasks", fmt.Sprintf("%d", stats.Total))
	g.kvLine(pdf, "Pending", fmt.Sprintf("%d", stats.Pending))
	g.kvLine(pdf, "Completed", fmt.Sprintf("%d", stats.Completed))
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", stats.Overdue))
	g.kvLine(pdf, "Due today", fmt.Sprintf("%d", stats.DueToday))
	g.kvLine(pdf, "Due this week", fmt.Sprintf("%d", stats.DueThisWeek))
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Pending by priority")
	for _, p := range []models.TaskPriority{models.PriorityP1, models.PriorityP2, models.PriorityP3, models.PriorityP4} {
		g.kvLine(pdf, string(p), fmt.Sprintf("%d", stats.ByPriority[p]))
	}
	pdf.Ln(2)
	g.hr(pdf)

	g.sectionTitle(pdf, "Tasks")
	g.tableHeader(pdf)
	for _, t := range snapshot.Tasks {
		g.tableRow(pdf, &t)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	return pdf.Output(w)
}

func (g *ReportGenerator) tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont(g.fontName, "B", 10)
	pdf.CellFormat(12, 7, "ID", "B", 0, "L", false, 0, "")
	pdf.CellFormat(70, 7, "Task", "B", 0, "L", false, 0, "")
	pdf.CellFormat(32, 7, "Assignee", "B", 0, "L", false, 0, "")
	pdf.CellFormat(32, 7, "Due", "B", 0, "L", false, 0, "")
	pdf.CellFormat(12, 7, "Pri", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Status", "B", 1, "L", false, 0, "")
}

func (g *ReportGenerator) tableRow(pdf *gofpdf.Fpdf, t *models.Task) {
	assignee := "-"
	if t.Assignee != nil {
		assignee = *t.Assignee
	}
	due := "-"
	if t.DueDate != nil {
		due = *t.DueDate
		if t.DueTime != nil {
			due += " " + *t.DueTime
		}
	}
	status := "pending"
	if t.Completed {
		status = "done"
	}
	name := t.TaskName
	if len(name) > 42 {
		name = name[:39] + "..."
	}

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(12, 6, fmt.Sprintf("%d", t.ID), "", 0, "L", false, 0, "")
	pdf.CellFormat(70, 6, name, "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, assignee, "", 0, "L", false, 0, "")
	pdf.CellFormat(32, 6, due, "", 0, "L", false, 0, "")
	pdf.CellFormat(12, 6, string(t.Priority), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, status, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
