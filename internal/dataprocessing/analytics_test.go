package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/pkg/contracts/domain"
)

func TestCorrelate(t *testing.T) {
	records := []domain.Record{
		rec(2, day(2024, 1, 1), v(1), v(10), v(7), v(2), v(0)),
		rec(3, day(2024, 1, 2), v(2), v(8), v(7), v(4), v(0)),
		rec(4, day(2024, 1, 3), v(3), v(6), v(7), v(6), v(0)),
		rec(5, day(2024, 1, 4), v(4), domain.Absent(), v(7), v(8), v(0)),
	}
	view := Filter(records, criteria(day(2024, 1, 1), day(2024, 1, 31), domain.ColumnSoja, domain.ColumnMilho, domain.ColumnTrigo))

	m := Correlate(view)
	require.Equal(t, []string{domain.ColumnSoja, domain.ColumnMilho, domain.ColumnTrigo, domain.ColumnBuyRate}, m.Columns)

	assert.InDelta(t, 1.0, m.At(0, 0).Float64, 1e-12)
	assert.InDelta(t, -1.0, m.At(0, 1).Float64, 1e-12, "pairwise complete over the first three rows")
	assert.InDelta(t, 1.0, m.At(0, 3).Float64, 1e-12)
	assert.Equal(t, m.At(0, 1), m.At(1, 0))

	// constant column has no defined correlation, not even with itself
	assert.False(t, m.At(2, 2).Valid)
	assert.False(t, m.At(0, 2).Valid)

	table := m.Table("Correlação")
	assert.Equal(t, "", table.Columns[0])
	assert.Equal(t, domain.ColumnSoja, table.Rows[0][0].Text)
	assert.Equal(t, domain.CellAbsent, table.Rows[2][3].Kind)
}

func TestPearson_ConstantSeries(t *testing.T) {
	tests := []struct {
		name string
		x, y []domain.Value
	}{
		{"constant integer x", values(7, 7, 7), values(1, 2, 3)},
		{"constant fractional x", values(0.1, 0.1, 0.1), values(1, 2, 3)},
		{"constant fractional y", values(1, 2, 3), values(0.1, 0.1, 0.1)},
		{"constant after dropping absent", []domain.Value{v(0.3), v(0.3), v(9)}, []domain.Value{v(1), v(2), domain.Absent()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, pearson(tt.x, tt.y).Valid)
		})
	}
}

func TestCorrelate_ConstantFractionalColumn(t *testing.T) {
	records := []domain.Record{
		rec(2, day(2024, 1, 1), v(1), v(0.1), v(5), v(2), v(0)),
		rec(3, day(2024, 1, 2), v(2), v(0.1), v(6), v(4), v(0)),
		rec(4, day(2024, 1, 3), v(3), v(0.1), v(8), v(6), v(0)),
	}
	view := Filter(records, criteria(day(2024, 1, 1), day(2024, 1, 31), domain.ColumnSoja, domain.ColumnMilho))

	m := Correlate(view)
	require.Equal(t, []string{domain.ColumnSoja, domain.ColumnMilho, domain.ColumnBuyRate}, m.Columns)
	assert.False(t, m.At(1, 1).Valid)
	assert.False(t, m.At(0, 1).Valid)
	assert.False(t, m.At(1, 2).Valid)
	assert.InDelta(t, 1.0, m.At(0, 0).Float64, 1e-12)
	assert.InDelta(t, 1.0, m.At(0, 2).Float64, 1e-12)
}

func TestCorrelate_EmptyView(t *testing.T) {
	view := Filter(scenarioRecords(), criteria(day(2030, 1, 1), day(2030, 1, 31), domain.ColumnSoja))
	m := Correlate(view)
	require.Len(t, m.Values, 2)
	assert.False(t, m.At(0, 0).Valid)
}

func TestDollarAverageOf(t *testing.T) {
	c := criteria(day(2024, 1, 1), day(2024, 12, 31), domain.ColumnSoja)
	c.RateKind = domain.RateSell
	view := Filter(scenarioRecords(), c)

	avg := DollarAverageOf(view)
	assert.Equal(t, domain.ColumnSellRate, avg.Column)
	assert.Equal(t, 3, avg.Count)
	assert.InDelta(t, (4.91+4.96+5.01)/3, avg.Overall.Float64, 1e-9)

	require.Len(t, avg.Monthly, 2)
	assert.InDelta(t, (4.91+4.96)/2, avg.Monthly[0].Values[domain.ColumnSellRate].Float64, 1e-9)
	assert.InDelta(t, 5.01, avg.Monthly[1].Values[domain.ColumnSellRate].Float64, 1e-9)
}

func TestDollarAverageOf_NoRates(t *testing.T) {
	records := []domain.Record{rec(2, day(2024, 1, 1), v(1), v(1), v(1), domain.Absent(), domain.Absent())}
	view := Filter(records, criteria(day(2024, 1, 1), day(2024, 1, 1)))

	avg := DollarAverageOf(view)
	assert.False(t, avg.Overall.Valid)
	assert.Equal(t, 0, avg.Count)
	require.Len(t, avg.Monthly, 1)
	assert.False(t, avg.Monthly[0].Values[domain.ColumnBuyRate].Valid)
}
