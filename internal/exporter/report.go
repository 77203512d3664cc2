package exporter

import (
	"agrodash/internal/dataprocessing"
	"agrodash/pkg/contracts/domain"
)

// ColumnTrend heads the fitted values column of a trend report.
const ColumnTrend = "Tendência"

// OverallLabel marks the closing row of the dollar average report.
const OverallLabel = "Média Geral"

// ReportTable returns the table exported for a pipeline result: the
// filtered records for data export, and the computed figures otherwise.
func ReportTable(res *dataprocessing.Result) domain.Table {
	title := res.Mode.Label()
	switch res.Mode {
	case domain.ModeMonthlyAverages:
		if res.Monthly != nil {
			return res.Monthly.Table(title)
		}
	case domain.ModeCorrelation:
		if res.Correlation != nil {
			return res.Correlation.Table(title)
		}
	case domain.ModeDollarAverage:
		if res.Dollar != nil {
			s := domain.MonthlySummary{Columns: []string{res.Dollar.Column}, Buckets: res.Dollar.Monthly}
			t := s.Table(title)
			t.Rows = append(t.Rows, []domain.Cell{domain.TextCell(OverallLabel), domain.NumberCell(res.Dollar.Overall)})
			return t
		}
	case domain.ModeTrends:
		if res.Trend != nil {
			return trendTable(res.View, *res.Trend, title)
		}
	case domain.ModeDataExport:
		return res.View.Table(DefaultTitle)
	}
	return domain.Table{Title: title}
}

// trendTable lists the observations the model was fitted on next to the
// fitted values.
func trendTable(view domain.View, m domain.TrendModel, title string) domain.Table {
	t := domain.Table{
		Title:   title,
		Columns: []string{domain.ColumnDate, m.XColumn, m.YColumn, ColumnTrend},
	}
	xs, ys := view.Series(m.XColumn), view.Series(m.YColumn)
	for i, r := range view.Records {
		if !xs[i].Valid || !ys[i].Valid {
			continue
		}
		t.Rows = append(t.Rows, []domain.Cell{
			domain.DateCell(r.Date, r.HasDate),
			domain.NumberCell(xs[i]),
			domain.NumberCell(ys[i]),
			domain.NumberCell(domain.Some(m.Predict(xs[i].Float64))),
		})
	}
	return t
}
