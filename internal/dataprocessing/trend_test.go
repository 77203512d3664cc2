package dataprocessing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/pkg/contracts/domain"
)

func values(fs ...float64) []domain.Value {
	out := make([]domain.Value, len(fs))
	for i, f := range fs {
		out[i] = domain.Some(f)
	}
	return out
}

func TestFitTrend_Identity(t *testing.T) {
	x := values(1, 2, 3, 4.5, 10)
	m, err := FitTrend(x, x)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, m.Slope, 1e-12)
	assert.InDelta(t, 0.0, m.Intercept, 1e-12)
	assert.InDelta(t, 1.0, m.RSquared.Float64, 1e-12)
	assert.Equal(t, 5, m.Points)
	for i := range x {
		assert.InDelta(t, x[i].Float64, m.Predicted[i].Float64, 1e-12)
	}
}

func TestFitTrend_KnownLine(t *testing.T) {
	x := values(0, 1, 2, 3)
	y := values(1, 3, 5, 7)

	m, err := FitTrend(x, y)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m.Slope, 1e-12)
	assert.InDelta(t, 1.0, m.Intercept, 1e-12)
	assert.InDelta(t, 21.0, m.Predict(10), 1e-12)
}

func TestFitTrend_SkipsUnpairedValues(t *testing.T) {
	x := []domain.Value{v(1), domain.Absent(), v(2), v(3)}
	y := []domain.Value{v(2), v(100), domain.Absent(), v(6)}

	m, err := FitTrend(x, y)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Points)
	assert.InDelta(t, 2.0, m.Slope, 1e-12)
	assert.InDelta(t, 0.0, m.Intercept, 1e-12)

	// predictions follow x, including rows whose y was absent
	require.Len(t, m.Predicted, 4)
	assert.False(t, m.Predicted[1].Valid)
	assert.InDelta(t, 4.0, m.Predicted[2].Float64, 1e-12)
}

func TestFitTrend_InsufficientData(t *testing.T) {
	tests := []struct {
		name string
		x, y []domain.Value
	}{
		{"no points", nil, nil},
		{"one point", values(1), values(2)},
		{"one pair after dropping absent", []domain.Value{v(1), domain.Absent()}, []domain.Value{v(1), v(2)}},
		{"constant x", values(3, 3, 3), values(1, 2, 3)},
		{"constant fractional x", values(0.1, 0.1, 0.1), values(1, 2, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitTrend(tt.x, tt.y)
			assert.True(t, errors.Is(err, domain.ErrInsufficientData), "got %v", err)
		})
	}
}

func TestFitTrend_ConstantY(t *testing.T) {
	m, err := FitTrend(values(1, 2, 3), values(5, 5, 5))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, m.Slope, 1e-12)
	assert.InDelta(t, 5.0, m.Intercept, 1e-12)
	assert.False(t, m.RSquared.Valid)
}

func TestFitTrend_ConstantFractionalY(t *testing.T) {
	m, err := FitTrend(values(1, 2, 3), values(0.1, 0.1, 0.1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Slope)
	assert.Equal(t, 0.1, m.Intercept)
	assert.False(t, m.RSquared.Valid)
}

func TestFitTrend_SmallSpreadAroundLargeOffset(t *testing.T) {
	tests := []struct {
		name      string
		x, y      []domain.Value
		slope     float64
		intercept float64
	}{
		{
			name:      "half step at one million",
			x:         values(1e6, 1e6+0.5, 1e6+1),
			y:         values(1, 2, 3),
			slope:     2,
			intercept: 1 - 2e6,
		},
		{
			name:      "exchange rate decimals",
			x:         values(4.9501, 4.9502, 4.9503),
			y:         values(10, 20, 30),
			slope:     1e5,
			intercept: 10 - 1e5*4.9501,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := FitTrend(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.slope, m.Slope, 1e-6*tt.slope)
			assert.InDelta(t, tt.intercept, m.Intercept, 1e-3)
			require.True(t, m.RSquared.Valid)
			assert.InDelta(t, 1.0, m.RSquared.Float64, 1e-6)
		})
	}
}

func TestFitTrend_LengthMismatch(t *testing.T) {
	_, err := FitTrend(values(1, 2), values(1))
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrInsufficientData))
}

func TestTrendFromView(t *testing.T) {
	view := Filter(scenarioRecords(), criteria(day(2024, 1, 1), day(2024, 12, 31), domain.ColumnSoja, domain.ColumnMilho))

	m, err := TrendFromView(view, "", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnBuyRate, m.XColumn)
	assert.Equal(t, domain.ColumnSoja, m.YColumn)
	assert.Equal(t, 3, m.Points)
	assert.Greater(t, m.Slope, 0.0)

	_, err = TrendFromView(view, domain.ColumnSellRate, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientData, "sell rate is not in a buy view")

	empty := Filter(scenarioRecords(), criteria(day(2024, 1, 1), day(2024, 12, 31)))
	_, err = TrendFromView(empty, "", "")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}
