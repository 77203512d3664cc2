package charts

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"agrodash/internal/dataprocessing"
	"agrodash/pkg/contracts/domain"
)

// ErrNoChart is returned for modes that have no chart, such as data export.
var ErrNoChart = errors.New("mode has no chart")

// ContentType of SVG charts.
const ContentType = "image/svg+xml"

// absentLabel marks values that could not be computed.
const absentLabel = "n/d"

// Config holds rendering parameters.
type Config struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
	BgColor      string
	GridColor    string
	TextColor    string
	AbsentColor  string
	FontSize     int
	Title        string
}

// DefaultConfig returns the standard dashboard chart size and palette.
func DefaultConfig() Config {
	return Config{
		Width:        800,
		Height:       420,
		MarginTop:    50,
		MarginRight:  40,
		MarginBottom: 70,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		AbsentColor:  "#d9d9d9",
		FontSize:     11,
	}
}

func (c Config) withDefaults(title string) Config {
	if c.Width == 0 || c.Height == 0 {
		d := DefaultConfig()
		d.Title = c.Title
		c = d
	}
	if c.Title == "" {
		c.Title = title
	}
	return c
}

func (c Config) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

var palette = []string{"#2e7d32", "#f9a825", "#8d6e63", "#1565c0", "#c62828", "#6a1b9a"}

// Format is an output format for charts.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts a format name or file extension. An empty string
// selects SVG.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case "":
		return FormatSVG, nil
	case FormatSVG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unsupported chart format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return ContentType
}

var chartNames = map[domain.VisualizationMode]string{
	domain.ModeCorrelation:     "MapaDeCalor_CorrelacoesDiarias",
	domain.ModeMonthlyAverages: "MediasMensais_De_Commodities_E_Dolar",
	domain.ModeDollarAverage:   "Media_Dolar",
	domain.ModeTrends:          "Tendencia_Soja",
}

// Filename returns the deterministic file name of a mode's chart in
// format f.
func Filename(mode domain.VisualizationMode, f Format) (string, error) {
	name, ok := chartNames[mode]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoChart, mode)
	}
	return name + "." + string(f), nil
}

// Render draws the chart matching res.Mode as an SVG document.
func Render(res *dataprocessing.Result, cfg Config) (string, error) {
	cfg, draw, err := plan(res, cfg)
	if err != nil {
		return "", err
	}
	return toSVG(cfg, draw), nil
}

// RenderPDF writes the chart matching res.Mode to w as a one page PDF.
func RenderPDF(w io.Writer, res *dataprocessing.Result, cfg Config) error {
	cfg, draw, err := plan(res, cfg)
	if err != nil {
		return err
	}
	c := newPDFCanvas(cfg)
	draw(c)
	return c.output(w)
}

// Write renders the chart matching res.Mode to w in format f.
func Write(w io.Writer, res *dataprocessing.Result, cfg Config, f Format) error {
	switch f {
	case FormatSVG:
		svg, err := Render(res, cfg)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, svg)
		return err
	case FormatPDF:
		return RenderPDF(w, res, cfg)
	}
	return fmt.Errorf("unsupported chart format %q", f)
}

// plan resolves the chart of res.Mode into its final config and drawing
// routine.
func plan(res *dataprocessing.Result, cfg Config) (Config, func(canvas), error) {
	var draw func(canvas)
	switch res.Mode {
	case domain.ModeCorrelation:
		if res.Correlation == nil {
			cfg, draw = placeholder(cfg, "Sem dados")
		} else {
			cfg, draw = heatmap(*res.Correlation, cfg)
		}
	case domain.ModeMonthlyAverages:
		if res.Monthly == nil {
			cfg, draw = placeholder(cfg, "Sem dados")
		} else {
			cfg, draw = groupedBars(*res.Monthly, cfg)
		}
	case domain.ModeDollarAverage:
		if res.Dollar == nil {
			cfg, draw = placeholder(cfg, "Sem dados")
		} else {
			cfg, draw = rateBars(*res.Dollar, cfg)
		}
	case domain.ModeTrends:
		x, y := "", ""
		if res.Trend != nil {
			x, y = res.Trend.XColumn, res.Trend.YColumn
		}
		cfg, draw = trendLine(res.View, x, y, res.Trend, cfg)
	default:
		return Config{}, nil, fmt.Errorf("%w: %s", ErrNoChart, res.Mode)
	}
	return cfg, draw, nil
}

func toSVG(cfg Config, draw func(canvas)) string {
	c := newSVGCanvas(cfg.Width, cfg.Height)
	draw(c)
	return c.String()
}

// valueRange returns the padded [min, max] of the present values. When
// includeZero is set the range always spans zero, as bar charts need.
func valueRange(values []domain.Value, includeZero bool) (lo, hi float64, ok bool) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, v := range values {
		if !v.Valid {
			continue
		}
		lo = math.Min(lo, v.Float64)
		hi = math.Max(hi, v.Float64)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	if includeZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	span := hi - lo
	if span < 1e-9 {
		span = math.Max(math.Abs(hi), 1)
	}
	if !includeZero || lo < 0 {
		lo -= span * 0.05
	}
	hi += span * 0.05
	return lo, hi, true
}

func drawFrame(c canvas, cfg Config) {
	c.rect(0, 0, float64(cfg.Width), float64(cfg.Height), cfg.BgColor, "", "")
	c.text(float64(cfg.Width)/2, 24, cfg.Title, font{size: 15, color: cfg.TextColor, anchor: anchorMiddle, bold: true})
}

// drawYAxis draws horizontal grid lines with value labels.
func drawYAxis(c canvas, cfg Config, lo, hi float64) {
	px, py, pw, ph := cfg.plotArea()
	const gridLines = 5
	for i := 0; i <= gridLines; i++ {
		val := lo + (hi-lo)*float64(i)/gridLines
		y := float64(py+ph) - float64(ph)*float64(i)/gridLines
		c.line(float64(px), y, float64(px+pw), y, stroke{color: cfg.GridColor, dash: []float64{3, 3}})
		c.text(float64(px-6), y+4, fmt.Sprintf("%.2f", val), cfg.label(anchorEnd))
	}
}

func drawLegend(c canvas, cfg Config, names []string) {
	px, _, _, _ := cfg.plotArea()
	x := float64(px)
	for i, name := range names {
		c.rect(x, 34, 10, 10, palette[i%len(palette)], "", "")
		c.text(x+14, 43, name, font{size: 10, color: cfg.TextColor})
		x += float64(24 + 7*len([]rune(name)))
	}
}

// label is the font of axis and category labels.
func (c Config) label(a anchor) font {
	return font{size: float64(c.FontSize), color: c.TextColor, anchor: a}
}

// placeholder draws msg on a blank chart, for results with nothing to plot.
func placeholder(cfg Config, msg string) (Config, func(canvas)) {
	cfg = cfg.withDefaults("")
	return cfg, func(c canvas) {
		c.rect(0, 0, float64(cfg.Width), float64(cfg.Height), "#f5f5f5", "", "")
		c.text(float64(cfg.Width)/2, float64(cfg.Height)/2, msg, font{size: 14, color: "#999999", anchor: anchorMiddle})
	}
}
