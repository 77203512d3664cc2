package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/internal/charts"
	"agrodash/internal/config"
	"agrodash/internal/dataprocessing"
	"agrodash/internal/exporter"
	"agrodash/internal/files"
	"agrodash/internal/shared/testutil"
	"agrodash/pkg/contracts/domain"
)

func newTestService(t *testing.T) *DashboardService {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	records := testutil.AgroRecords()
	stats := dataprocessing.NormalizeStats{Rows: len(records), Records: len(records), Commodities: domain.DefaultCommodities()}
	p := dataprocessing.NewPipeline(records, stats, nil, logger)

	paths, err := config.GetPaths(config.PathsConfig{OutputDir: t.TempDir(), LogsDir: t.TempDir()})
	require.NoError(t, err)
	exp := exporter.New(paths, config.ExportConfig{}, nil, logger)
	return NewDashboardService(p, exp, paths, logger)
}

func TestDashboardService_Criteria(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name string
		req  CriteriaRequest
		want domain.FilterCriteria
	}{
		{
			name: "defaults",
			req:  CriteriaRequest{},
			want: domain.FilterCriteria{
				DateFrom:    testutil.Day(2024, 1, 5),
				DateTo:      testutil.Day(2024, 2, 20),
				Commodities: domain.DefaultCommodities(),
				RateKind:    domain.RateBuy,
			},
		},
		{
			name: "overrides",
			req:  CriteriaRequest{From: "2024-02-01", To: "2024-02-15", Commodities: []string{"Milho"}, Rate: "sell"},
			want: domain.FilterCriteria{
				DateFrom:    testutil.Day(2024, 2, 1),
				DateTo:      testutil.Day(2024, 2, 15),
				Commodities: []string{"Milho"},
				RateKind:    domain.RateSell,
			},
		},
		{
			name: "explicit empty selection",
			req:  CriteriaRequest{Commodities: []string{}},
			want: domain.FilterCriteria{
				DateFrom:    testutil.Day(2024, 1, 5),
				DateTo:      testutil.Day(2024, 2, 20),
				Commodities: []string{},
				RateKind:    domain.RateBuy,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Criteria(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDashboardService_Criteria_Invalid(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		req   CriteriaRequest
		field string
	}{
		{"bad from", CriteriaRequest{From: "05/01/2024"}, "from"},
		{"bad to", CriteriaRequest{To: "2024-02-30"}, "to"},
		{"bad rate", CriteriaRequest{Rate: "mid"}, "rate"},
		{"blank commodity", CriteriaRequest{Commodities: []string{"Soja", ""}}, "commodities[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Criteria(tt.req)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestDashboardService_Meta(t *testing.T) {
	meta := newTestService(t).Meta(context.Background())

	assert.Equal(t, domain.DefaultCommodities(), meta.Commodities)
	require.NotNil(t, meta.DateFrom)
	assert.Equal(t, testutil.Day(2024, 1, 5), *meta.DateFrom)
	assert.Equal(t, testutil.Day(2024, 2, 20), *meta.DateTo)
	require.Len(t, meta.Modes, 5)
	assert.Equal(t, ModeOption{Slug: domain.ModeCorrelation, Label: "Correlação"}, meta.Modes[0])
	assert.Len(t, meta.Formats, 3)
}

func TestDashboardService_Views(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := testutil.FullCriteria()

	view, err := svc.Records(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, 5, view.Len())

	monthly, err := svc.Monthly(ctx, c)
	require.NoError(t, err)
	require.Len(t, monthly.Buckets, 2)
	assert.InDelta(t, 122.5, monthly.Buckets[0].Values["Soja"].Float64, 1e-9)

	dollar, err := svc.DollarAverage(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, "Dólar Compra", dollar.Column)
	assert.Equal(t, 5, dollar.Count)

	corr, err := svc.Correlation(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Soja", "Milho", "Trigo", "Dólar Compra"}, corr.Columns)
}

func TestDashboardService_Trend(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.Trend(ctx, testutil.FullCriteria(), "", "")
	require.NoError(t, err)
	require.True(t, res.Available)
	assert.Equal(t, "Dólar Compra", res.Model.XColumn)
	assert.Equal(t, "Soja", res.Model.YColumn)
	assert.Greater(t, res.Model.Slope, 0.0)

	none := testutil.FullCriteria()
	none.Commodities = []string{}
	res, err = svc.Trend(ctx, none, "", "")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Contains(t, res.Reason, "no commodity selected")

	res, err = svc.Trend(ctx, testutil.FullCriteria(), "Dólar Venda", "Soja")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Contains(t, res.Reason, "not in the view")
}

func TestDashboardService_Export(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	name, err := svc.Export(ctx, &buf, testutil.FullCriteria(), domain.ModeDataExport, exporter.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "dados_agro.csv", name)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Data,Soja,Milho,Trigo,Dólar Compra", lines[0])
	assert.Equal(t, "20/01/2024,125.00,,72.00,4.95", lines[2])
}

func TestDashboardService_Export_Empty(t *testing.T) {
	svc := newTestService(t)

	c := testutil.FullCriteria()
	c.DateFrom, c.DateTo = testutil.Day(2030, 1, 1), testutil.Day(2030, 12, 31)

	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), &buf, c, domain.ModeDataExport, exporter.FormatPDF)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Zero(t, buf.Len())
}

func TestDashboardService_Chart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		format charts.Format
		name   string
		prefix string
	}{
		{charts.FormatSVG, "MediasMensais_De_Commodities_E_Dolar.svg", "<svg"},
		{charts.FormatPDF, "MediasMensais_De_Commodities_E_Dolar.pdf", "%PDF-"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			name, err := svc.Chart(ctx, &buf, testutil.FullCriteria(), domain.ModeMonthlyAverages, tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.name, name)
			assert.True(t, strings.HasPrefix(buf.String(), tt.prefix))
		})
	}

	var buf bytes.Buffer
	_, err := svc.Chart(ctx, &buf, testutil.FullCriteria(), domain.ModeDataExport, charts.FormatPDF)
	assert.ErrorIs(t, err, charts.ErrNoChart)
	assert.Zero(t, buf.Len())
}

func TestDashboardService_ExportArtifacts(t *testing.T) {
	svc := newTestService(t)

	paths, err := svc.ExportArtifacts(context.Background(), testutil.FullCriteria(), []exporter.Format{exporter.FormatCSV, exporter.FormatXLSX})
	require.NoError(t, err)

	// Five reports in two formats plus four charts.
	assert.Len(t, paths, 14)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	assert.Contains(t, names, "medias_mensais.xlsx")
	assert.Contains(t, names, "MapaDeCalor_CorrelacoesDiarias.svg")
}

func TestDashboardService_ExportArtifacts_ChartPDFs(t *testing.T) {
	svc := newTestService(t)

	paths, err := svc.ExportArtifacts(context.Background(), testutil.FullCriteria(), []exporter.Format{exporter.FormatPDF})
	require.NoError(t, err)

	// Five report PDFs plus four charts as SVG and as PDF.
	assert.Len(t, paths, 13)
	names := make(map[string]bool, len(paths))
	for _, p := range paths {
		names[filepath.Base(p)] = true
	}
	for _, mode := range domain.Modes() {
		for _, f := range []charts.Format{charts.FormatSVG, charts.FormatPDF} {
			name, err := charts.Filename(mode, f)
			if err != nil {
				continue
			}
			assert.True(t, names[name], name)
		}
	}

	data, err := os.ReadFile(svc.paths.GetOutputPath("Tendencia_Soja.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestDashboardService_ExportArtifacts_SkipsEmptyReports(t *testing.T) {
	svc := newTestService(t)

	c := testutil.FullCriteria()
	c.DateFrom, c.DateTo = testutil.Day(2030, 1, 1), testutil.Day(2030, 12, 31)

	paths, err := svc.ExportArtifacts(context.Background(), c, []exporter.Format{exporter.FormatCSV})
	require.NoError(t, err)

	var svgs int
	for _, p := range paths {
		base := filepath.Base(p)
		assert.NotEqual(t, "dados_agro.csv", base)
		assert.NotEqual(t, "tendencia.csv", base)
		assert.NotEqual(t, "medias_mensais.csv", base)
		if filepath.Ext(p) == ".svg" {
			svgs++
		}
		assert.NotEqual(t, ".pdf", filepath.Ext(p), "no chart PDFs without the pdf format")
	}
	assert.Equal(t, 4, svgs)
}

func TestDashboardService_Artifacts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	before, err := svc.Artifacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, before)

	written, err := svc.ExportArtifacts(ctx, testutil.FullCriteria(), []exporter.Format{exporter.FormatCSV})
	require.NoError(t, err)

	listed, err := svc.Artifacts(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, len(written))

	f, info, err := svc.OpenArtifact(ctx, "dados_agro.csv")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "csv", info.Kind)
	assert.Greater(t, info.Size, int64(0))

	_, _, err = svc.OpenArtifact(ctx, "media_dolar.pdf")
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, _, err = svc.OpenArtifact(ctx, "../dados_agro.csv")
	assert.ErrorIs(t, err, files.ErrInvalidName)
}

func TestDashboardService_Artifacts_NoPaths(t *testing.T) {
	p := dataprocessing.NewPipeline(testutil.AgroRecords(), dataprocessing.NormalizeStats{}, nil, nil)
	svc := NewDashboardService(p, nil, nil, nil)

	listed, err := svc.Artifacts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, _, err = svc.OpenArtifact(context.Background(), "dados_agro.csv")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
