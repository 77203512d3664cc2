package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"agrodash/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the table as comma-separated UTF-8 text: one header
// row of column names, then one row per table row. An empty table fails
// with ErrEmptyInput before anything is written.
func WriteCSV(w io.Writer, t domain.Table, bom bool) error {
	if t.Empty() {
		return fmt.Errorf("csv export: %w", domain.ErrEmptyInput)
	}

	// BOM helps Excel recognize UTF-8
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = FormatCell(row[j])
			}
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV parses text written by WriteCSV back into a Table. Cells that
// look like DD/MM/YYYY dates become dates, numeric cells become numbers,
// empty cells become absent and anything else stays text.
func ReadCSV(r io.Reader) (domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Table{}, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	rows, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("csv import: %w", domain.ErrEmptyInput)
	}

	t := domain.Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		cells := make([]domain.Cell, len(row))
		for i, s := range row {
			cells[i] = parseCell(s)
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

func parseCell(s string) domain.Cell {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Cell{Kind: domain.CellAbsent}
	}
	if len(s) == len(DateLayout) {
		if t, err := time.Parse(DateLayout, s); err == nil {
			return domain.DateCell(t, true)
		}
	}
	if d, err := decimal.NewFromString(s); err == nil {
		f, _ := d.Float64()
		return domain.NumberCell(domain.Some(f))
	}
	return domain.TextCell(s)
}
