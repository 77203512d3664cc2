package charts

import (
	"fmt"
	"strings"
)

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// font describes a text run. y coordinates passed to canvas.text are
// baselines.
type font struct {
	size   float64
	color  string
	anchor anchor
	bold   bool
}

type stroke struct {
	color string
	width float64
	dash  []float64
}

// canvas is the drawing surface the charts are written against. Units are
// SVG user units; the PDF backend maps one unit to one point.
type canvas interface {
	// rect fills a rectangle. outline may be empty. tip is a hover text,
	// kept only by formats that have one.
	rect(x, y, w, h float64, fill, outline, tip string)
	line(x1, y1, x2, y2 float64, s stroke)
	circle(cx, cy, r float64, fill string, opacity float64)
	text(x, y float64, s string, f font)
	// clip runs draw with output restricted to the rectangle. class tags
	// the clipped group where the format supports it.
	clip(x, y, w, h float64, class string, draw func())
}

// svgCanvas writes a standalone SVG document.
type svgCanvas struct {
	sb    strings.Builder
	clips int
}

func newSVGCanvas(width, height int) *svgCanvas {
	c := &svgCanvas{}
	fmt.Fprintf(&c.sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		width, height, width, height)
	return c
}

func (c *svgCanvas) rect(x, y, w, h float64, fill, outline, tip string) {
	fmt.Fprintf(&c.sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"`, x, y, w, h, fill)
	if outline != "" {
		fmt.Fprintf(&c.sb, ` stroke="%s"`, outline)
	}
	if tip == "" {
		c.sb.WriteString("/>")
		return
	}
	fmt.Fprintf(&c.sb, `><title>%s</title></rect>`, escapeXML(tip))
}

func (c *svgCanvas) line(x1, y1, x2, y2 float64, s stroke) {
	fmt.Fprintf(&c.sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"`, x1, y1, x2, y2, s.color)
	if s.width > 0 {
		fmt.Fprintf(&c.sb, ` stroke-width="%g"`, s.width)
	}
	if len(s.dash) > 0 {
		parts := make([]string, len(s.dash))
		for i, d := range s.dash {
			parts[i] = fmt.Sprintf("%g", d)
		}
		fmt.Fprintf(&c.sb, ` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	c.sb.WriteString("/>")
}

func (c *svgCanvas) circle(cx, cy, r float64, fill string, opacity float64) {
	fmt.Fprintf(&c.sb, `<circle cx="%.1f" cy="%.1f" r="%g" fill="%s"`, cx, cy, r, fill)
	if opacity < 1 {
		fmt.Fprintf(&c.sb, ` fill-opacity="%g"`, opacity)
	}
	c.sb.WriteString("/>")
}

func (c *svgCanvas) text(x, y float64, s string, f font) {
	fmt.Fprintf(&c.sb, `<text x="%.1f" y="%.1f" font-size="%g" fill="%s"`, x, y, f.size, f.color)
	switch f.anchor {
	case anchorMiddle:
		c.sb.WriteString(` text-anchor="middle"`)
	case anchorEnd:
		c.sb.WriteString(` text-anchor="end"`)
	}
	if f.bold {
		c.sb.WriteString(` font-weight="bold"`)
	}
	fmt.Fprintf(&c.sb, `>%s</text>`, escapeXML(s))
}

func (c *svgCanvas) clip(x, y, w, h float64, class string, draw func()) {
	c.clips++
	id := fmt.Sprintf("clip%d", c.clips)
	fmt.Fprintf(&c.sb, `<defs><clipPath id="%s"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath></defs>`,
		id, x, y, w, h)
	c.sb.WriteString(`<g`)
	if class != "" {
		fmt.Fprintf(&c.sb, ` class="%s"`, class)
	}
	fmt.Fprintf(&c.sb, ` clip-path="url(#%s)">`, id)
	draw()
	c.sb.WriteString("</g>")
}

// String closes the document and returns it.
func (c *svgCanvas) String() string {
	return c.sb.String() + "</svg>"
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
