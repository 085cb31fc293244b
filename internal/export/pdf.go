package export

import (
	"fmt"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin  = 15.0
	lineHeight  = 7.0
	labelWidth  = 30.0
	headerColor = 0x8B
)

// WritePDF writes an A4 PDF summary
func WritePDF(dir string, s Summary) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetTitle("Event Summary: "+s.Event.EventName, true)
	pdf.SetAuthor(s.Business.Name, true)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if s.Business.Name != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetTextColor(headerColor, 0x1A, 0x1A)
		pdf.CellFormat(0, 10, tr(s.Business.Name), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0x55, 0x55, 0x55)
		for _, line := range []string{s.Business.Phone, s.Business.Email, s.Business.Address} {
			if line != "" {
				pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
			}
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, tr("Event Summary"), "B", 1, "L", false, 0, "")
	pdf.Ln(3)

	for _, sec := range s.sections() {
		heading(pdf, tr(sec.title))
		for _, r := range sec.rows {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(labelWidth, lineHeight, tr(r.label), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, lineHeight, tr(r.value), "", "L", false)
		}
		pdf.Ln(3)
	}

	heading(pdf, tr("Menu"))
	pdf.SetFont("Helvetica", "", 11)
	for _, line := range s.menuLines() {
		pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}

	path := filepath.Join(dir, FileName(s)+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func heading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetFillColor(0xF3, 0xE5, 0xD8)
	pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	pdf.Ln(1)
}
