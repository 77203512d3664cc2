package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"agrodash/internal/config"
	"agrodash/pkg/contracts/domain"
)

// RawTable is a row-major table of cell strings as read from a source.
type RawTable struct {
	// Origin describes where the table came from, for logs and errors.
	Origin string
	Header []string
	Rows   [][]string
}

// Source loads the raw price table. Load is called once per session.
type Source interface {
	Load(ctx context.Context) (*RawTable, error)
}

// unavailable wraps err so that callers can match ErrSourceUnavailable.
func unavailable(origin string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrSourceUnavailable, origin, err)
}

// OpenSource builds the Source described by cfg.
func OpenSource(cfg config.SourceConfig, logger *slog.Logger) (Source, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.ResolvedKind() {
	case config.SourceExcel:
		return &ExcelSource{
			Location:   cfg.Location,
			Sheet:      cfg.Sheet,
			HeaderHint: headerHint(cfg.Columns),
			MaxBytes:   cfg.MaxBytes,
			Client:     &http.Client{Timeout: cfg.Timeout},
			Logger:     logger,
		}, nil
	case config.SourceSheets:
		return &SheetsSource{
			SpreadsheetID: strings.TrimPrefix(cfg.Location, "sheets:"),
			Range:         sheetsRange(cfg.Sheet, cfg.Range),
			APIKey:        cfg.APIKey,
			Logger:        logger,
		}, nil
	case config.SourceCSV:
		return &CSVSource{Path: cfg.Location}, nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", cfg.Kind)
	}
}

// headerHint returns the source header that maps to the date column.
func headerHint(mapping map[string]string) string {
	for src, canonical := range mapping {
		if canonical == domain.ColumnDate {
			return src
		}
	}
	return domain.ColumnDate
}

// ExcelSource reads one sheet of a workbook stored on disk or behind an
// http(s) URL.
type ExcelSource struct {
	Location string
	// Sheet is the sheet to read. When empty the first sheet whose header
	// row contains HeaderHint is used.
	Sheet      string
	HeaderHint string
	// MaxBytes caps the workbook size. Zero means
	// config.DefaultSourceMaxBytes.
	MaxBytes int64
	Client   *http.Client
	Logger   *slog.Logger
}

// Load implements Source.
func (s *ExcelSource) Load(ctx context.Context) (*RawTable, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, unavailable(s.Location, err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, unavailable(s.Location, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	sheet, rows, err := s.findSheet(f)
	if err != nil {
		return nil, unavailable(s.Location, err)
	}

	table := tableFromRows(s.Location, rows)
	s.logger().Info("Source loaded",
		slog.String("location", s.Location),
		slog.String("sheet", sheet),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

func (s *ExcelSource) read(ctx context.Context) ([]byte, error) {
	limit := s.MaxBytes
	if limit <= 0 {
		limit = config.DefaultSourceMaxBytes
	}

	if !isURL(s.Location) {
		info, err := os.Stat(s.Location)
		if err != nil {
			return nil, err
		}
		if info.Size() > limit {
			return nil, fmt.Errorf("workbook is %d bytes, over the %d byte limit", info.Size(), limit)
		}
		return os.ReadFile(s.Location)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Location, nil)
	if err != nil {
		return nil, err
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	if resp.ContentLength > limit {
		return nil, fmt.Errorf("workbook is %d bytes, over the %d byte limit", resp.ContentLength, limit)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("workbook exceeds the %d byte limit", limit)
	}
	return data, nil
}

// findSheet returns the rows of the configured sheet, or discovers one.
// Raw cell values are requested so that date cells keep their serial form.
func (s *ExcelSource) findSheet(f *excelize.File) (string, [][]string, error) {
	raw := excelize.Options{RawCellValue: true}

	if s.Sheet != "" {
		if idx, err := f.GetSheetIndex(s.Sheet); err != nil || idx < 0 {
			return "", nil, fmt.Errorf("sheet %q not found", s.Sheet)
		}
		rows, err := f.GetRows(s.Sheet, raw)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read sheet %q: %w", s.Sheet, err)
		}
		return s.Sheet, rows, nil
	}

	hint := foldHeader(s.HeaderHint)
	if hint == "" {
		hint = foldHeader(domain.ColumnDate)
	}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, raw)
		if err != nil || len(rows) == 0 {
			continue
		}
		for _, cell := range firstNonBlank(rows) {
			if foldHeader(cell) == hint {
				return name, rows, nil
			}
		}
	}
	return "", nil, fmt.Errorf("no sheet with a %q column", s.HeaderHint)
}

func (s *ExcelSource) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// CSVSource reads a table previously written by the CSV exporter.
type CSVSource struct {
	Path string
}

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) (*RawTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	defer f.Close()

	table, err := ReadRawCSV(s.Path, f)
	if err != nil {
		return nil, unavailable(s.Path, err)
	}
	return table, nil
}

// ReadRawCSV parses comma-separated text into a RawTable. A leading UTF-8
// byte order mark is ignored.
func ReadRawCSV(origin string, r io.Reader) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return tableFromRows(origin, rows), nil
}

// tableFromRows splits rows into header and data. Blank rows before the
// header are skipped.
func tableFromRows(origin string, rows [][]string) *RawTable {
	table := &RawTable{Origin: origin}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		table.Header = row
		table.Rows = rows[i+1:]
		break
	}
	return table
}

func firstNonBlank(rows [][]string) []string {
	for _, row := range rows {
		if !isBlank(row) {
			return row
		}
	}
	return nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}
