package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/internal/config"
	"agrodash/internal/dataprocessing"
	apierrors "agrodash/internal/errors"
	"agrodash/internal/infrastructure"
	"agrodash/internal/shared/testutil"
	"agrodash/pkg/contracts/domain"
)

func newTestApp(t *testing.T, records []domain.Record) *Application {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	cfg := config.Default()
	cfg.Server.Port = 0
	cfg.Security.RateLimit.Enabled = false

	paths, err := config.GetPaths(config.PathsConfig{OutputDir: t.TempDir(), LogsDir: t.TempDir()})
	require.NoError(t, err)

	p := dataprocessing.NewPipeline(records,
		dataprocessing.NormalizeStats{Records: len(records), Commodities: domain.DefaultCommodities()}, nil, logger)

	a, err := Assemble(cfg, paths, infrastructure.NewNoopTelemetry(), p, logger)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestApplication_Routes(t *testing.T) {
	a := newTestApp(t, testutil.AgroRecords())

	tests := []struct {
		target      string
		code        int
		contentType string
	}{
		{"/api/health", http.StatusOK, "application/json"},
		{"/api/health/live", http.StatusOK, "application/json"},
		{"/api/health/ready", http.StatusOK, "application/json"},
		{"/api/version", http.StatusOK, "application/json"},
		{"/api/dashboard/meta", http.StatusOK, "application/json"},
		{"/api/dashboard/records?from=2024-02-01", http.StatusOK, "application/json"},
		{"/api/dashboard/monthly", http.StatusOK, "application/json"},
		{"/api/dashboard/dollar-average?rate=sell", http.StatusOK, "application/json"},
		{"/api/dashboard/trend", http.StatusOK, "application/json"},
		{"/api/dashboard/correlation", http.StatusOK, "application/json"},
		{"/api/dashboard/charts/trends", http.StatusOK, "image/svg+xml"},
		{"/api/dashboard/charts/correlation?format=pdf", http.StatusOK, "application/pdf"},
		{"/api/dashboard/charts/monthly-averages?format=gif", http.StatusBadRequest, apierrors.ContentTypeProblem},
		{"/api/dashboard/export/xlsx", http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"/api/dashboard/artifacts", http.StatusOK, "application/json"},
		{"/api/dashboard/artifacts/dados_agro.csv", http.StatusNotFound, apierrors.ContentTypeProblem},
		{"/api/dashboard/artifacts/notes.txt", http.StatusBadRequest, apierrors.ContentTypeProblem},
		{"/api/dashboard/records?rate=both", http.StatusBadRequest, apierrors.ContentTypeProblem},
		{"/api/dashboard/export/csv?from=2030-01-01", http.StatusUnprocessableEntity, apierrors.ContentTypeProblem},
		{"/api/unknown", http.StatusNotFound, apierrors.ContentTypeProblem},
		{"/metrics", http.StatusNotFound, apierrors.ContentTypeProblem},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(t, a.Router, tt.target)

			assert.Equal(t, tt.code, w.Code, w.Body.String())
			assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), tt.contentType),
				"content type %q", w.Header().Get("Content-Type"))
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestApplication_SecurityHeaders(t *testing.T) {
	a := newTestApp(t, testutil.AgroRecords())

	w := get(t, a.Router, "/api/dashboard/meta")

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestApplication_MethodNotAllowed(t *testing.T) {
	a := newTestApp(t, testutil.AgroRecords())

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/version", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, apierrors.ContentTypeProblem, w.Header().Get("Content-Type"))
}

func TestApplication_ReadinessWithoutRecords(t *testing.T) {
	a := newTestApp(t, nil)

	w := get(t, a.Router, "/api/health/ready")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var status struct {
		Status   string                            `json:"status"`
		Services map[string]map[string]interface{} `json:"services"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "not_ready", status.Status)
	assert.Equal(t, "not_ready", status.Services["records"]["status"])
	assert.Equal(t, "ready", status.Services["output_dir"]["status"])
}

func TestApplication_WebSocket(t *testing.T) {
	a := newTestApp(t, testutil.AgroRecords())
	srv := httptest.NewServer(a.Router)
	defer srv.Close()
	defer a.WebSocketHub.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id":"1","mode":"dollar-average","criteria":{"rate":"sell"}}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp struct {
		Type   string `json:"type"`
		Result struct {
			Dollar domain.DollarAverage `json:"dollar_average"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "result", resp.Type)
	assert.Equal(t, "Dólar Venda", resp.Result.Dollar.Column)
	assert.Equal(t, 4, resp.Result.Dollar.Count)
}

func TestApplication_ExportArtifacts(t *testing.T) {
	a := newTestApp(t, testutil.AgroRecords())

	c := a.Pipeline.DefaultCriteria()
	paths, err := a.Dashboard.ExportArtifacts(context.Background(), c, nil)
	require.NoError(t, err)

	// No report formats requested: only the charts are written
	assert.Len(t, paths, 4)
	for _, p := range paths {
		assert.Equal(t, a.Paths.OutputDir, filepath.Dir(p))
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "<svg"))
	}
}

func TestApplication_RunStopsOnCancel(t *testing.T) {
	a := newTestApp(t, testutil.AgroRecords())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoadPipeline_CSV(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "precos.csv")
	csvData := "DATA,SOJA,MILHO,TRIGO,DÓLAR COMPRA,DÓLAR VENDA\n" +
		"2024-01-05,\"120,50\",55,70,\"4,90\",\"4,91\"\n" +
		"2024-01-06,121,56,71,\"4,92\",\"4,93\"\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o644))

	cfg := config.Default().Source
	cfg.Kind = config.SourceCSV
	cfg.Location = path

	p, err := LoadPipeline(context.Background(), cfg, nil, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stats().Records)
	assert.InDelta(t, 120.5, p.Records()[0].Prices["Soja"].Float64, 1e-9)
}

func TestLoadPipeline_MissingSource(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	cfg := config.Default().Source
	cfg.Kind = config.SourceCSV
	cfg.Location = filepath.Join(t.TempDir(), "missing.csv")

	_, err := LoadPipeline(context.Background(), cfg, nil, logger)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}
