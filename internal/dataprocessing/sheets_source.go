package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads a range of a Google Sheets spreadsheet.
type SheetsSource struct {
	SpreadsheetID string
	// Range in A1 notation, e.g. "Página1!A:F".
	Range  string
	APIKey string
	Logger *slog.Logger

	// ClientOptions are appended after the API key option.
	ClientOptions []option.ClientOption
}

// sheetsRange combines the sheet name and an optional A1 range.
func sheetsRange(sheet, rng string) string {
	switch {
	case sheet == "":
		return rng
	case rng == "":
		return sheet
	default:
		return sheet + "!" + rng
	}
}

// Load implements Source. Values are requested unformatted so that dates
// arrive as serial numbers, as they do from a workbook.
func (s *SheetsSource) Load(ctx context.Context) (*RawTable, error) {
	origin := "sheets:" + s.SpreadsheetID

	opts := make([]option.ClientOption, 0, len(s.ClientOptions)+1)
	if s.APIKey != "" {
		opts = append(opts, option.WithAPIKey(s.APIKey))
	}
	opts = append(opts, s.ClientOptions...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, unavailable(origin, fmt.Errorf("failed to create sheets service: %w", err))
	}

	resp, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("SERIAL_NUMBER").
		Context(ctx).
		Do()
	if err != nil {
		return nil, unavailable(origin, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = sheetCellString(cell)
		}
	}

	table := tableFromRows(origin, rows)
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "Source loaded",
		slog.String("location", origin),
		slog.String("range", s.Range),
		slog.Int("rows", len(table.Rows)))
	return table, nil
}

func sheetCellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(c)
	default:
		return fmt.Sprint(c)
	}
}
