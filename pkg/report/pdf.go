package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 24, "L"},
	{"Account", 32, "L"},
	{"Category", 30, "L"},
	{"Type", 22, "L"},
	{"Description", 52, "L"},
	{"Amount", 30, "R"},
}

// PDFRenderer lays a document out on A4 pages.
type PDFRenderer struct {
	Author string
}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Author: "ledger"}
}

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(r.Author, true)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr("Period: "+doc.Period), "", 1, "L", false, 0, "")
	if doc.Owner != "" {
		pdf.CellFormat(0, 6, tr("Prepared for: "+doc.Owner), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, "Generated: "+doc.GeneratedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	summary := [][2]string{
		{"Total income", doc.Summary.TotalIncome.StringFixed(2)},
		{"Total expenses", doc.Summary.TotalExpenses.StringFixed(2)},
		{"Net savings", doc.Summary.NetSavings.StringFixed(2)},
		{"Transactions", fmt.Sprintf("%d", doc.Summary.Transactions)},
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range summary {
		pdf.CellFormat(50, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, line[1], "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, c := range columns {
			pdf.CellFormat(c.width, 7, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 8)
	}
	header()
	if len(doc.Rows) == 0 {
		pdf.CellFormat(0, 7, "No transactions in this period.", "1", 1, "C", false, 0, "")
	}
	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range doc.Rows {
		if pdf.GetY()+6 > pageHeight-bottom-15 {
			pdf.AddPage()
			header()
		}
		cells := []string{
			row.Date.Format("2006-01-02"),
			row.Account,
			row.Category,
			string(row.Type),
			row.Description,
			row.Amount.StringFixed(2),
		}
		for i, c := range columns {
			pdf.CellFormat(c.width, 6, tr(fit(pdf, cells[i], c.width-2)), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// fit truncates s with an ellipsis so it fits into width millimetres.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
