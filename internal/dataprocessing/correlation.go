package dataprocessing

import (
	"agrodash/pkg/contracts/domain"
)

// Correlate builds the Pearson matrix across the view's numeric columns.
// Each pair uses only the records where both values are present.
func Correlate(view domain.View) domain.CorrelationMatrix {
	columns := view.NumericColumns()
	series := make([][]domain.Value, len(columns))
	for i, c := range columns {
		series[i] = view.Series(c)
	}

	m := domain.CorrelationMatrix{
		Columns: columns,
		Values:  make([][]domain.Value, len(columns)),
	}
	for i := range columns {
		m.Values[i] = make([]domain.Value, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r := pearson(series[i], series[j])
			if i == j && r.Valid {
				r = domain.Some(1)
			}
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}
