package render

import (
	"bytes"

	"github.com/gaurav-prasanna/actapipe/core"
	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer typesets a session: title, metadata, then each intervention
// with the speaker label in bold. Text is translated to cp1252 for the
// core fonts, so characters outside it print as '?'.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out the record as PDF bytes.
func (r *PDFRenderer) Render(rec *core.SessionRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 8, tr(title(rec)), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr(summary(rec)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	for _, p := range rec.Pairs {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, tr(p.Speaker), "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(p.Text), "", "J", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}
