package exporter

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"

	"agrodash/pkg/contracts/domain"
)

// Document defaults.
const (
	DefaultTitle     = "Relatório de Dados - Variações dos Agro Commodities e Dólar"
	DefaultWatermark = "Projeto Agrícola - Unespar"
)

// Page geometry in millimetres. The watermark is rotated about its anchor.
const (
	pageMargin      = 10.0
	rowHeight       = 8.0
	watermarkX      = 60.0
	watermarkY      = 190.0
	watermarkAngle  = 45.0
	watermarkSize   = 40.0
	watermarkShade  = 200
	headerFillShade = 230
)

// PDFOptions controls the tabular document.
type PDFOptions struct {
	Title     string
	Watermark string
	Author    string
	// DocumentID is stored in the document subject; a random one is used
	// when empty.
	DocumentID string
	// Compress page streams. Disabled in tests to inspect the output.
	Compress bool
}

// DefaultPDFOptions returns the standard report settings.
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		Title:     DefaultTitle,
		Watermark: DefaultWatermark,
		Compress:  true,
	}
}

// WritePDF renders the table as an A4 portrait document. Columns share the
// printable width equally, the column header is repeated at the top of
// every page and every page carries the diagonal watermark. An empty table
// fails with ErrEmptyInput.
func WritePDF(w io.Writer, t domain.Table, opts PDFOptions) error {
	if t.Empty() {
		return fmt.Errorf("pdf export: %w", domain.ErrEmptyInput)
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.DocumentID == "" {
		opts.DocumentID = uuid.New().String()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(opts.Compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+rowHeight)
	pdf.AliasNbPages("")

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(opts.Title, true)
	pdf.SetSubject(fmt.Sprintf("%s [%s]", t.Title, opts.DocumentID), true)
	pdf.SetCreator("agrodash", true)
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(t.Columns))

	fontSize := 10.0
	if len(t.Columns) > 6 {
		fontSize = 8
	}

	pdf.SetHeaderFunc(func() {
		if opts.Watermark != "" {
			drawWatermark(pdf, tr(opts.Watermark))
		}

		pdf.SetTextColor(0, 0, 0)
		if pdf.PageNo() == 1 {
			pdf.SetFont("Helvetica", "B", 14)
			pdf.CellFormat(0, 10, tr(opts.Title), "", 1, "C", false, 0, "")
			if t.Title != "" && t.Title != opts.Title {
				pdf.SetFont("Helvetica", "", 11)
				pdf.CellFormat(0, 7, tr(t.Title), "", 1, "C", false, 0, "")
			}
			pdf.Ln(2)
		}

		pdf.SetFont("Helvetica", "B", fontSize)
		pdf.SetFillColor(headerFillShade, headerFillShade, headerFillShade)
		for _, name := range t.Columns {
			pdf.CellFormat(colW, rowHeight, tr(name), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(rowHeight)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-pageMargin - 2)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", fontSize)
	for _, row := range t.Rows {
		for i := range t.Columns {
			text := ""
			if i < len(row) {
				text = FormatCell(row[i])
			}
			pdf.CellFormat(colW, rowHeight, tr(text), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(rowHeight)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

func drawWatermark(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", watermarkSize)
	pdf.SetTextColor(watermarkShade, watermarkShade, watermarkShade)
	pdf.TransformBegin()
	pdf.TransformRotate(watermarkAngle, watermarkX, watermarkY)
	pdf.Text(watermarkX, watermarkY, text)
	pdf.TransformEnd()
}
