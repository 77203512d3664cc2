package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrodash/pkg/contracts/domain"
)

func TestMonthlyAverages_Scenario(t *testing.T) {
	records := scenarioRecords()

	january := Filter(records, criteria(day(2024, 1, 1), day(2024, 1, 31), domain.ColumnSoja))
	buckets := MonthlyAverages(january.Records, []string{domain.ColumnSoja})
	require.Len(t, buckets, 1)
	assert.Equal(t, 2024, buckets[0].Year)
	assert.Equal(t, time.January, buckets[0].Month)
	assert.InDelta(t, 15.0, buckets[0].Values[domain.ColumnSoja].Float64, 1e-9)
	assert.Equal(t, 2, buckets[0].Counts[domain.ColumnSoja])

	february := Filter(records, criteria(day(2024, 2, 1), day(2024, 2, 29), domain.ColumnSoja))
	buckets = MonthlyAverages(february.Records, []string{domain.ColumnSoja})
	require.Len(t, buckets, 1)
	assert.InDelta(t, 30.0, buckets[0].Values[domain.ColumnSoja].Float64, 1e-9)
	assert.Equal(t, 1, buckets[0].Counts[domain.ColumnSoja])
	assert.Equal(t, 1, buckets[0].Records)
}

func TestMonthlyAverages_AbsentWhenNoContribution(t *testing.T) {
	records := []domain.Record{
		rec(2, day(2024, 3, 1), v(1), domain.Absent(), v(2), v(5), v(5)),
		rec(3, day(2024, 3, 2), v(3), domain.Absent(), domain.Absent(), v(5), v(5)),
	}

	buckets := MonthlyAverages(records, []string{domain.ColumnSoja, domain.ColumnMilho, domain.ColumnTrigo})
	require.Len(t, buckets, 1)

	b := buckets[0]
	assert.Equal(t, domain.Some(2), b.Values[domain.ColumnSoja])
	assert.False(t, b.Values[domain.ColumnMilho].Valid, "no contributing value must be absent, not zero")
	assert.Equal(t, 0, b.Counts[domain.ColumnMilho])
	assert.Equal(t, domain.Some(2), b.Values[domain.ColumnTrigo])
	assert.Equal(t, 1, b.Counts[domain.ColumnTrigo])
}

func TestMonthlyAverages_ChronologicalAndOmitsEmptyMonths(t *testing.T) {
	records := []domain.Record{
		rec(2, day(2024, 3, 1), v(3), v(0), v(0), v(0), v(0)),
		rec(3, day(2023, 12, 31), v(1), v(0), v(0), v(0), v(0)),
		rec(4, day(2024, 1, 15), v(2), v(0), v(0), v(0), v(0)),
		{Row: 5, Prices: map[string]domain.Value{domain.ColumnSoja: v(99)}},
	}

	buckets := MonthlyAverages(records, []string{domain.ColumnSoja})
	require.Len(t, buckets, 3)

	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label()
	}
	assert.Equal(t, []string{"Dec/2023", "Jan/2024", "Mar/2024"}, labels)
}

func TestMonthlyAverages_RecomputedMeansMatch(t *testing.T) {
	var records []domain.Record
	for i := 0; i < 90; i++ {
		d := day(2024, 1, 1).AddDate(0, 0, i)
		soja := domain.Some(100 + float64(i)*1.37)
		if i%7 == 0 {
			soja = domain.Absent()
		}
		records = append(records, rec(i+2, d, soja, v(float64(i)/3), v(1), v(5.1), v(5.2)))
	}

	columns := []string{domain.ColumnSoja, domain.ColumnMilho}
	for _, b := range MonthlyAverages(records, columns) {
		for _, c := range columns {
			var sum float64
			n := 0
			for _, r := range records {
				if r.Date.Year() != b.Year || r.Date.Month() != b.Month {
					continue
				}
				if val := r.Prices[c]; val.Valid {
					sum += val.Float64
					n++
				}
			}
			require.Equal(t, n, b.Counts[c])
			want := sum / float64(n)
			got := b.Values[c].Float64
			assert.LessOrEqual(t, math.Abs(got-want), 1e-9*math.Abs(want), "%s %s", b.Label(), c)
		}
	}
}

func TestSummarize_UsesViewColumns(t *testing.T) {
	view := Filter(scenarioRecords(), criteria(day(2024, 1, 1), day(2024, 12, 31), domain.ColumnSoja))

	summary := Summarize(view)
	assert.Equal(t, []string{domain.ColumnSoja, domain.ColumnBuyRate}, summary.Columns)
	require.Len(t, summary.Buckets, 2)
	assert.InDelta(t, 4.925, summary.Buckets[0].Values[domain.ColumnBuyRate].Float64, 1e-9)

	table := summary.Table("Médias Mensais")
	assert.Equal(t, []string{domain.ColumnMonth, domain.ColumnSoja, domain.ColumnBuyRate}, table.Columns)
	assert.Equal(t, "Jan/2024", table.Rows[0][0].Text)
}
