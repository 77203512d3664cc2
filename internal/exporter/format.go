package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"agrodash/pkg/contracts/domain"
)

// Fixed export conventions.
const (
	// DecimalPlaces is the number of fractional digits written for numbers.
	DecimalPlaces = 2
	// DateLayout renders dates as DD/MM/YYYY.
	DateLayout = "02/01/2006"
)

// Format is an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name or file extension.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))); f {
	case FormatCSV, FormatPDF, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/octet-stream"
}

var reportNames = map[domain.VisualizationMode]string{
	domain.ModeDataExport:      "dados_agro",
	domain.ModeMonthlyAverages: "medias_mensais",
	domain.ModeCorrelation:     "correlacoes",
	domain.ModeDollarAverage:   "media_dolar",
	domain.ModeTrends:          "tendencia",
}

// Filename returns the deterministic artifact name of a report.
func Filename(mode domain.VisualizationMode, f Format) string {
	base, ok := reportNames[mode]
	if !ok {
		base = "relatorio"
	}
	return base + "." + string(f)
}

// FormatNumber renders f with DecimalPlaces digits, rounding half away
// from zero on the shortest decimal representation of f.
func FormatNumber(f float64) string {
	return decimal.NewFromFloat(f).StringFixed(DecimalPlaces)
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatCell renders a cell as text. Absent cells are empty.
func FormatCell(c domain.Cell) string {
	switch c.Kind {
	case domain.CellText:
		return c.Text
	case domain.CellNumber:
		return FormatNumber(c.Number)
	case domain.CellDate:
		return FormatDate(c.Date)
	default:
		return ""
	}
}
