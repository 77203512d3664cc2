package dataprocessing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"agrodash/pkg/contracts/domain"
)

func sheetsServer(t *testing.T, status int, values [][]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/values/") {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		assert.Equal(t, "SERIAL_NUMBER", r.URL.Query().Get("dateTimeRenderOption"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          "Página1!A1:F3",
			"majorDimension": "ROWS",
			"values":         values,
		})
	}))
}

func TestSheetsSource_Load(t *testing.T) {
	srv := sheetsServer(t, http.StatusOK, [][]interface{}{
		{"DATA", "SOJA", "COMPRA", "VENDA"},
		{45296, 120.5, 4.9, 4.91},
		{45297, "", 4.95, true},
	})
	defer srv.Close()

	src := &SheetsSource{
		SpreadsheetID: "sheet-id",
		Range:         "Página1",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithoutAuthentication(),
			option.WithHTTPClient(srv.Client()),
		},
	}

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sheets:sheet-id", table.Origin)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"45296", "120.5", "4.9", "4.91"}, table.Rows[0])

	records, stats := defaultNormalizer().Normalize(table)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-05", records[0].Date.Format("2006-01-02"))
	assert.Equal(t, domain.Some(120.5), records[0].Prices[domain.ColumnSoja])
	assert.Equal(t, 1, stats.ParseFailures, "boolean cell is not a number")
}

func TestSheetsSource_Unavailable(t *testing.T) {
	srv := sheetsServer(t, http.StatusNotFound, nil)
	defer srv.Close()

	src := &SheetsSource{
		SpreadsheetID: "missing",
		Range:         "Página1",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(srv.URL + "/"),
			option.WithoutAuthentication(),
			option.WithHTTPClient(srv.Client()),
		},
	}

	_, err := src.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestSheetCellString(t *testing.T) {
	assert.Equal(t, "", sheetCellString(nil))
	assert.Equal(t, "45296", sheetCellString(float64(45296)))
	assert.Equal(t, "0.25", sheetCellString(0.25))
	assert.Equal(t, "abc", sheetCellString("abc"))
	assert.Equal(t, "true", sheetCellString(true))
}

func TestSheetsRange(t *testing.T) {
	assert.Equal(t, "Página1!A:F", sheetsRange("Página1", "A:F"))
	assert.Equal(t, "Página1", sheetsRange("Página1", ""))
	assert.Equal(t, "A:F", sheetsRange("", "A:F"))
}
