package dataprocessing

import (
	"sort"
	"time"

	"agrodash/pkg/contracts/domain"
)

type monthKey struct {
	year  int
	month time.Month
}

type monthAcc struct {
	sums    map[string]float64
	counts  map[string]int
	records int
}

// MonthlyAverages groups records by calendar month and averages each
// column over its present values. Records without a date are skipped and
// months without records are omitted. A column with no contributing value
// in a month is absent in that bucket. Buckets are chronological.
func MonthlyAverages(records []domain.Record, columns []string) []domain.MonthlyBucket {
	accs := make(map[monthKey]*monthAcc)

	for _, r := range records {
		if !r.HasDate {
			continue
		}
		key := monthKey{year: r.Date.Year(), month: r.Date.Month()}
		acc, ok := accs[key]
		if !ok {
			acc = &monthAcc{sums: map[string]float64{}, counts: map[string]int{}}
			accs[key] = acc
		}
		acc.records++

		for _, c := range columns {
			v, ok := r.Field(c)
			if !ok || !v.Valid {
				continue
			}
			acc.sums[c] += v.Float64
			acc.counts[c]++
		}
	}

	buckets := make([]domain.MonthlyBucket, 0, len(accs))
	for key, acc := range accs {
		b := domain.MonthlyBucket{
			Year:    key.year,
			Month:   key.month,
			Values:  make(map[string]domain.Value, len(columns)),
			Counts:  make(map[string]int, len(columns)),
			Records: acc.records,
		}
		for _, c := range columns {
			n := acc.counts[c]
			b.Counts[c] = n
			if n == 0 {
				b.Values[c] = domain.Absent()
				continue
			}
			b.Values[c] = domain.Some(acc.sums[c] / float64(n))
		}
		buckets = append(buckets, b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Before(buckets[j])
	})
	return buckets
}

// Summarize aggregates every numeric column of the view.
func Summarize(view domain.View) domain.MonthlySummary {
	columns := view.NumericColumns()
	return domain.MonthlySummary{
		Columns: columns,
		Buckets: MonthlyAverages(view.Records, columns),
	}
}
