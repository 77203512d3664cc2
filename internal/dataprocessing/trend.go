package dataprocessing

import (
	"fmt"

	"agrodash/pkg/contracts/domain"
)

// FitTrend fits y = Intercept + Slope*x by ordinary least squares over the
// pairs where both values are present. It fails with ErrInsufficientData
// when fewer than two pairs remain or x has no variance.
func FitTrend(x, y []domain.Value) (domain.TrendModel, error) {
	if len(x) != len(y) {
		return domain.TrendModel{}, fmt.Errorf("series length mismatch: %d and %d", len(x), len(y))
	}

	var xs, ys []float64
	for i := range x {
		if x[i].Valid && y[i].Valid {
			xs = append(xs, x[i].Float64)
			ys = append(ys, y[i].Float64)
		}
	}

	n := len(xs)
	if n < 2 {
		return domain.TrendModel{}, fmt.Errorf("%w: %d paired observations", domain.ErrInsufficientData, n)
	}

	meanX, dx, xVaries := deviations(xs)
	if !xVaries {
		return domain.TrendModel{}, fmt.Errorf("%w: independent variable is constant", domain.ErrInsufficientData)
	}
	meanY, dy, yVaries := deviations(ys)

	var sxx, sxy, syy float64
	for i := range dx {
		sxx += dx[i] * dx[i]
		sxy += dx[i] * dy[i]
		syy += dy[i] * dy[i]
	}
	m := domain.TrendModel{
		Slope:  sxy / sxx,
		Points: n,
	}
	m.Intercept = meanY - m.Slope*meanX
	if yVaries {
		m.RSquared = domain.Some(sxy * sxy / (sxx * syy))
	}

	m.Predicted = make([]domain.Value, len(x))
	for i, v := range x {
		if v.Valid {
			m.Predicted[i] = domain.Some(m.Predict(v.Float64))
		}
	}
	return m, nil
}

// TrendFromView fits yColumn against xColumn over the view's records.
// An empty xColumn selects the view's rate column and an empty yColumn
// the first selected commodity.
func TrendFromView(view domain.View, xColumn, yColumn string) (domain.TrendModel, error) {
	if xColumn == "" {
		xColumn = view.Criteria.RateKind.Column()
	}
	if yColumn == "" {
		selected := view.Criteria.SelectedCommodities()
		if len(selected) == 0 {
			return domain.TrendModel{}, fmt.Errorf("%w: no commodity selected", domain.ErrInsufficientData)
		}
		yColumn = selected[0]
	}
	for _, c := range []string{xColumn, yColumn} {
		if !view.HasColumn(c) || c == domain.ColumnDate {
			return domain.TrendModel{}, fmt.Errorf("%w: column %q is not in the view", domain.ErrInsufficientData, c)
		}
	}

	m, err := FitTrend(view.Series(xColumn), view.Series(yColumn))
	if err != nil {
		return domain.TrendModel{}, err
	}
	m.XColumn, m.YColumn = xColumn, yColumn
	return m, nil
}
