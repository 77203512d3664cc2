package charts

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
)

const pdfFont = "Helvetica"

// pdfCanvas draws on a single fpdf page sized to the chart, one point per
// SVG unit.
type pdfCanvas struct {
	pdf *fpdf.Fpdf
	// core fonts are cp1252
	tr func(string) string
}

func newPDFCanvas(cfg Config) *pdfCanvas {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: float64(cfg.Width), Ht: float64(cfg.Height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(cfg.Title, true)
	pdf.SetCreator("agrodash", true)
	pdf.AddPage()
	return &pdfCanvas{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (c *pdfCanvas) rect(x, y, w, h float64, fill, outline, _ string) {
	c.pdf.SetFillColor(rgb(fill))
	style := "F"
	if outline != "" {
		c.pdf.SetDrawColor(rgb(outline))
		c.pdf.SetLineWidth(1)
		style = "FD"
	}
	c.pdf.Rect(x, y, w, h, style)
}

func (c *pdfCanvas) line(x1, y1, x2, y2 float64, s stroke) {
	width := s.width
	if width <= 0 {
		width = 1
	}
	c.pdf.SetDrawColor(rgb(s.color))
	c.pdf.SetLineWidth(width)
	if len(s.dash) > 0 {
		c.pdf.SetDashPattern(s.dash, 0)
		defer c.pdf.SetDashPattern([]float64{}, 0)
	}
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *pdfCanvas) circle(cx, cy, r float64, fill string, opacity float64) {
	if opacity < 1 {
		c.pdf.SetAlpha(opacity, "Normal")
		defer c.pdf.SetAlpha(1, "Normal")
	}
	c.pdf.SetFillColor(rgb(fill))
	c.pdf.Circle(cx, cy, r, "F")
}

func (c *pdfCanvas) text(x, y float64, s string, f font) {
	style := ""
	if f.bold {
		style = "B"
	}
	c.pdf.SetFont(pdfFont, style, f.size)
	c.pdf.SetTextColor(rgb(f.color))

	s = c.tr(s)
	switch f.anchor {
	case anchorMiddle:
		x -= c.pdf.GetStringWidth(s) / 2
	case anchorEnd:
		x -= c.pdf.GetStringWidth(s)
	}
	c.pdf.Text(x, y, s)
}

func (c *pdfCanvas) clip(x, y, w, h float64, _ string, draw func()) {
	c.pdf.ClipRect(x, y, w, h, false)
	draw()
	c.pdf.ClipEnd()
}

func (c *pdfCanvas) output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render chart pdf: %w", err)
	}
	return nil
}

// rgb parses #rrggbb or #rgb. Anything else is black.
func rgb(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
