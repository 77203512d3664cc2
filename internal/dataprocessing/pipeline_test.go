package dataprocessing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/pkg/contracts/domain"
)

type stubSource struct {
	table *RawTable
	err   error
	calls int
}

func (s *stubSource) Load(ctx context.Context) (*RawTable, error) {
	s.calls++
	return s.table, s.err
}

func scenarioTable() *RawTable {
	return &RawTable{
		Origin: "stub",
		Header: []string{"DATA", "SOJA", "MILHO", "TRIGO", "COMPRA", "VENDA"},
		Rows: [][]string{
			{"45296", "10", "50", "", "4.90", "4.91"},
			{"45311", "20", "", "70", "4.95", "4.96"},
			{"45332", "30", "60", "80", "5.00", "5.01"},
		},
	}
}

func loadScenario(t *testing.T) *Pipeline {
	t.Helper()
	src := &stubSource{table: scenarioTable()}
	p, err := LoadPipeline(context.Background(), src, defaultNormalizer(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	return p
}

func TestLoadPipeline(t *testing.T) {
	p := loadScenario(t)

	assert.Len(t, p.Records(), 3)
	assert.Equal(t, []string{domain.ColumnSoja, domain.ColumnMilho, domain.ColumnTrigo}, p.Commodities())
	assert.Equal(t, 3, p.Stats().Records)

	from, to, ok := p.DateBounds()
	require.True(t, ok)
	assert.Equal(t, day(2024, 1, 5), from)
	assert.Equal(t, day(2024, 2, 10), to)

	c := p.DefaultCriteria()
	assert.Equal(t, domain.RateBuy, c.RateKind)
	assert.Equal(t, p.Commodities(), c.Commodities)
	assert.Equal(t, 3, p.Filter(context.Background(), c).Len())
}

func TestLoadPipeline_SourceUnavailable(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"already wrapped", unavailable("x", errors.New("boom"))},
		{"plain error", errors.New("disk on fire")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPipeline(context.Background(), &stubSource{err: tt.err}, defaultNormalizer(), nil, nil)
			assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
		})
	}
}

func TestPipeline_Run(t *testing.T) {
	p := loadScenario(t)
	ctx := context.Background()
	c := criteria(day(2024, 1, 1), day(2024, 1, 31), domain.ColumnSoja)

	tests := []struct {
		mode  domain.VisualizationMode
		check func(t *testing.T, res *Result)
	}{
		{domain.ModeCorrelation, func(t *testing.T, res *Result) {
			require.NotNil(t, res.Correlation)
			assert.InDelta(t, 1.0, res.Correlation.At(0, 1).Float64, 1e-9)
		}},
		{domain.ModeMonthlyAverages, func(t *testing.T, res *Result) {
			require.NotNil(t, res.Monthly)
			require.Len(t, res.Monthly.Buckets, 1)
			assert.InDelta(t, 15.0, res.Monthly.Buckets[0].Values[domain.ColumnSoja].Float64, 1e-9)
		}},
		{domain.ModeDollarAverage, func(t *testing.T, res *Result) {
			require.NotNil(t, res.Dollar)
			assert.InDelta(t, 4.925, res.Dollar.Overall.Float64, 1e-9)
		}},
		{domain.ModeTrends, func(t *testing.T, res *Result) {
			require.NotNil(t, res.Trend)
			assert.Empty(t, res.TrendUnavailable)
			assert.Equal(t, domain.ColumnSoja, res.Trend.YColumn)
		}},
		{domain.ModeDataExport, func(t *testing.T, res *Result) {
			assert.Nil(t, res.Monthly)
			assert.Nil(t, res.Trend)
			assert.Nil(t, res.Correlation)
			assert.Nil(t, res.Dollar)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			res, err := p.Run(ctx, c, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, res.Mode)
			assert.Equal(t, 2, res.View.Len())
			tt.check(t, res)
		})
	}
}

func TestPipeline_RunTrendUnavailable(t *testing.T) {
	p := loadScenario(t)

	// a single record cannot be fitted
	res, err := p.Run(context.Background(), criteria(day(2024, 2, 1), day(2024, 2, 29), domain.ColumnSoja), domain.ModeTrends)
	require.NoError(t, err)
	assert.Nil(t, res.Trend)
	assert.Contains(t, res.TrendUnavailable, domain.ErrInsufficientData.Error())
}

func TestPipeline_RunErrors(t *testing.T) {
	p := loadScenario(t)

	_, err := p.Run(context.Background(), p.DefaultCriteria(), domain.VisualizationMode("pie"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, p.DefaultCriteria(), domain.ModeCorrelation)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_RunDoesNotMutateRecords(t *testing.T) {
	p := loadScenario(t)
	before := append([]domain.Record(nil), p.Records()...)

	for _, mode := range domain.Modes() {
		_, err := p.Run(context.Background(), p.DefaultCriteria(), mode)
		require.NoError(t, err)
	}
	assert.Equal(t, before, p.Records())
}
