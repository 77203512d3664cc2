package dataprocessing

import (
	"agrodash/pkg/contracts/domain"
)

// Filter narrows records to the criteria. A record passes when its date is
// present and inside the inclusive range and it carries every selected
// commodity field; individual values may still be absent. Source order is
// preserved and the records themselves are shared, not copied.
func Filter(records []domain.Record, criteria domain.FilterCriteria) domain.View {
	selected := criteria.SelectedCommodities()
	view := domain.View{
		Criteria: criteria,
		Columns:  criteria.Columns(),
		Records:  make([]domain.Record, 0),
	}

	for _, r := range records {
		if !r.HasDate || !criteria.Contains(r.Date) {
			continue
		}
		if !hasFields(r, selected) {
			continue
		}
		view.Records = append(view.Records, r)
	}
	return view
}

func hasFields(r domain.Record, columns []string) bool {
	for _, c := range columns {
		if _, ok := r.Field(c); !ok {
			return false
		}
	}
	return true
}
