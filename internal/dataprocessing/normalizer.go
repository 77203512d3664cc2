package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"agrodash/internal/config"
	"agrodash/pkg/contracts/domain"
)

// Excel serial numbers accepted as dates: 1900-01-01 up to 9999-12-31.
const (
	minExcelSerial = 1
	maxExcelSerial = 2958465
)

// maxFailureSamples bounds NormalizeStats.Failures.
const maxFailureSamples = 10

// ColumnMapping maps source headers to canonical column names.
type ColumnMapping map[string]string

// DecimalFormat describes how numbers are written in the source.
type DecimalFormat struct {
	Decimal   rune
	Thousands rune
}

// BrazilianFormat is the pt-BR convention: 1.234,56.
var BrazilianFormat = DecimalFormat{Decimal: ',', Thousands: '.'}

// NormalizeStats summarizes one normalization pass.
type NormalizeStats struct {
	Rows          int `json:"rows"`
	Records       int `json:"records"`
	BlankRows     int `json:"blank_rows"`
	MissingDates  int `json:"missing_dates"`
	ParseFailures int `json:"parse_failures"`
	// Commodities lists the commodity columns found, in header order.
	Commodities []string `json:"commodities"`
	Unmapped    []string `json:"unmapped,omitempty"`
	// Failures holds the first parse failures, each matching
	// domain.ErrParseFailure.
	Failures []error `json:"-"`
}

// Normalizer turns raw rows into Records.
type Normalizer struct {
	Mapping     ColumnMapping
	DateLayouts []string
	Format      DecimalFormat
	Logger      *slog.Logger
}

// NewNormalizer builds a Normalizer from the source configuration.
func NewNormalizer(cfg config.SourceConfig, logger *slog.Logger) *Normalizer {
	n := &Normalizer{
		Mapping:     ColumnMapping(cfg.Columns),
		DateLayouts: cfg.DateLayouts,
		Format:      BrazilianFormat,
		Logger:      logger,
	}
	if r, _ := utf8.DecodeRuneInString(cfg.DecimalSeparator); r != utf8.RuneError {
		n.Format.Decimal = r
	}
	n.Format.Thousands, _ = utf8.DecodeRuneInString(cfg.ThousandsSeparator)
	if n.Format.Thousands == utf8.RuneError {
		n.Format.Thousands = 0
	}
	return n
}

// column is one resolved source column.
type column struct {
	index     int
	canonical string
}

// Normalize parses every non-blank row of table. It never fails: cells
// that cannot be parsed become absent and are counted in the stats.
func (n *Normalizer) Normalize(table *RawTable) ([]domain.Record, NormalizeStats) {
	var stats NormalizeStats
	if table == nil {
		return nil, stats
	}

	columns, unmapped := n.resolveHeader(table.Header)
	stats.Unmapped = unmapped
	for _, c := range columns {
		if c.canonical != domain.ColumnDate && !isRateColumn(c.canonical) {
			stats.Commodities = append(stats.Commodities, c.canonical)
		}
	}

	records := make([]domain.Record, 0, len(table.Rows))
	for i, row := range table.Rows {
		stats.Rows++
		if isBlank(row) {
			stats.BlankRows++
			continue
		}

		rec := domain.Record{
			// header is row 1
			Row:    i + 2,
			Prices: make(map[string]domain.Value, len(stats.Commodities)),
		}
		for _, c := range columns {
			cell := ""
			if c.index < len(row) {
				cell = row[c.index]
			}

			if c.canonical == domain.ColumnDate {
				rec.Date, rec.HasDate = n.parseDate(cell)
				if !rec.HasDate {
					stats.MissingDates++
				}
				continue
			}

			v, err := n.parseNumber(cell)
			if err != nil {
				stats.ParseFailures++
				if len(stats.Failures) < maxFailureSamples {
					stats.Failures = append(stats.Failures, fmt.Errorf("row %d, %s: %w", rec.Row, c.canonical, err))
				}
			}
			switch c.canonical {
			case domain.ColumnBuyRate:
				rec.BuyRate = v
			case domain.ColumnSellRate:
				rec.SellRate = v
			default:
				rec.Prices[c.canonical] = v
			}
		}
		records = append(records, rec)
	}
	stats.Records = len(records)

	n.logger().Debug("Records normalized",
		slog.String("origin", table.Origin),
		slog.Int("rows", stats.Rows),
		slog.Int("records", stats.Records),
		slog.Int("missing_dates", stats.MissingDates),
		slog.Int("parse_failures", stats.ParseFailures))
	for _, err := range stats.Failures {
		n.logger().Debug("Cell skipped", slog.String("origin", table.Origin), slog.String("error", err.Error()))
	}

	return records, stats
}

// resolveHeader matches header cells against the mapping. Matching ignores
// case, accents and repeated spaces, and canonical names map to
// themselves so exported tables can be read back.
func (n *Normalizer) resolveHeader(header []string) ([]column, []string) {
	lookup := make(map[string]string, len(n.Mapping)*2)
	for _, canonical := range n.Mapping {
		lookup[foldHeader(canonical)] = canonical
	}
	for src, canonical := range n.Mapping {
		lookup[foldHeader(src)] = canonical
	}

	var (
		columns  []column
		unmapped []string
		seen     = map[string]bool{}
	)
	for i, h := range header {
		canonical, ok := lookup[foldHeader(h)]
		if !ok {
			if strings.TrimSpace(h) != "" {
				unmapped = append(unmapped, h)
			}
			continue
		}
		// first occurrence wins
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		columns = append(columns, column{index: i, canonical: canonical})
	}
	return columns, unmapped
}

// parseDate accepts an Excel serial number or any configured layout.
func (n *Normalizer) parseDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(cell, 64); err == nil {
		if serial < minExcelSerial || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	}

	for _, layout := range n.DateLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseNumber parses a locale-formatted decimal. An empty cell is absent
// without counting as a failure.
func (n *Normalizer) parseNumber(cell string) (domain.Value, error) {
	s := cleanNumber(cell)
	if s == "" {
		return domain.Absent(), nil
	}

	dec := n.Format.Decimal
	if dec == 0 {
		dec = '.'
	}
	thousands := n.Format.Thousands

	// Raw workbook values always use '.' as the decimal point. When the
	// configured separator is missing, a single '.' is read as one.
	if dec != '.' && !strings.ContainsRune(s, dec) && strings.Count(s, ".") == 1 {
		dec, thousands = '.', 0
	}

	if thousands != 0 {
		s = strings.ReplaceAll(s, string(thousands), "")
	}
	if dec != '.' {
		s = strings.ReplaceAll(s, string(dec), ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return domain.Absent(), fmt.Errorf("%w: %q is not a number", domain.ErrParseFailure, cell)
	}
	f, _ := d.Float64()
	return domain.Some(f), nil
}

// cleanNumber strips currency symbols and whitespace.
func cleanNumber(cell string) string {
	s := strings.TrimSpace(cell)
	for _, prefix := range []string{"R$", "US$", "$"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// foldHeader normalizes a header for matching: accents removed, spaces
// collapsed, upper case.
func foldHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(folded), " "))
}

func (n *Normalizer) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func isRateColumn(c string) bool {
	return c == domain.ColumnBuyRate || c == domain.ColumnSellRate
}
