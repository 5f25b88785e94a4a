package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"techwiz/internal/services"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateReportCard(w io.Writer, card *services.ReportCard) error
}

// ReportCardGenerator пишет табель сразу в io.Writer — файлы на диске
// не храним, PDF уходит в ответ запроса.
type ReportCardGenerator struct {
	fontName string
}

func NewReportCardGenerator() *ReportCardGenerator {
	// Встроенная Helvetica: табель на латинице, TTF не нужен.
	return &ReportCardGenerator{fontName: "Helvetica"}
}

func (g *ReportCardGenerator) GenerateReportCard(w io.Writer, card *services.ReportCard) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Report Card — student %d", card.Student.ID), false)
	pdf.SetAuthor("TechWiz", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.CellFormat(0, 10, "REPORT CARD", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 12)
	sub := fmt.Sprintf("issued %s", time.Now().Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Студент
	g.sectionTitle(pdf, "Student")
	if card.Student.User != nil {
		g.kvLine(pdf, "Name", card.Student.User.FullName())
		g.kvLine(pdf, "Email", card.Student.User.Email)
	}
	g.kvLine(pdf, "Class", card.Student.ClassName)
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Оценки
	g.sectionTitle(pdf, "Grades")
	g.tableHeader(pdf)
	pdf.SetFont(g.fontName, "", 11)
	for _, s := range card.Subjects {
		pdf.CellFormat(62, 7, s.Subject, "1", 0, "L", false, 0, "")
		pdf.CellFormat(27, 7, fmtScore(s.Assignment), "1", 0, "C", false, 0, "")
		pdf.CellFormat(27, 7, fmtScore(s.Middle), "1", 0, "C", false, 0, "")
		pdf.CellFormat(27, 7, fmtScore(s.Final), "1", 0, "C", false, 0, "")
		pdf.CellFormat(27, 7, fmtScore(s.Total), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	g.kvLine(pdf, "GPA", fmtScore(card.GPA))

	// ===== Нумерация страниц
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(g.fontName, "", 10)
		pdf.CellFormat(0, 10,
			fmt.Sprintf("Page %d/{nb}", pdf.PageNo()),
			"", 0, "C", false, 0, "",
		)
	})

	return pdf.Output(w)
}

// ===== helpers =====

func (g *ReportCardGenerator) tableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(62, 7, "Subject", "1", 0, "L", false, 0, "")
	pdf.CellFormat(27, 7, "Assignments", "1", 0, "C", false, 0, "")
	pdf.CellFormat(27, 7, "Midterm", "1", 0, "C", false, 0, "")
	pdf.CellFormat(27, 7, "Final", "1", 0, "C", false, 0, "")
	pdf.CellFormat(27, 7, "Total", "1", 1, "C", false, 0, "")
}

func (g *ReportCardGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ReportCardGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func (g *ReportCardGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func fmtScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
