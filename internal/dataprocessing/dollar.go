package dataprocessing

import (
	"agrodash/pkg/contracts/domain"
)

// DollarAverageOf averages the view's selected rate column per month and
// over the whole view.
func DollarAverageOf(view domain.View) domain.DollarAverage {
	column := view.Criteria.RateKind.Column()
	overall, count := mean(view.Series(column))
	return domain.DollarAverage{
		Column:  column,
		Overall: overall,
		Count:   count,
		Monthly: MonthlyAverages(view.Records, []string{column}),
	}
}
