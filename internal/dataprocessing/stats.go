package dataprocessing

import (
	"math"

	"agrodash/pkg/contracts/domain"
)

// mean returns the average of the present values and how many there were.
func mean(values []domain.Value) (domain.Value, int) {
	var sum float64
	n := 0
	for _, v := range values {
		if v.Valid {
			sum += v.Float64
			n++
		}
	}
	if n == 0 {
		return domain.Absent(), 0
	}
	return domain.Some(sum / float64(n)), n
}

// pearson computes the correlation over pairwise-complete observations.
func pearson(x, y []domain.Value) domain.Value {
	var xs, ys []float64
	for i := range x {
		if i < len(y) && x[i].Valid && y[i].Valid {
			xs = append(xs, x[i].Float64)
			ys = append(ys, y[i].Float64)
		}
	}
	n := len(xs)
	if n < 2 {
		return domain.Absent()
	}

	_, dx, xVaries := deviations(xs)
	_, dy, yVaries := deviations(ys)
	if !xVaries || !yVaries {
		return domain.Absent()
	}

	var sxx, syy, sxy float64
	for i := range dx {
		sxx += dx[i] * dx[i]
		syy += dy[i] * dy[i]
		sxy += dx[i] * dy[i]
	}
	r := sxy / math.Sqrt(sxx*syy)
	// clamp rounding overshoot
	return domain.Some(math.Max(-1, math.Min(1, r)))
}

// deviations returns the mean of values and each value's deviation from
// it. varies is false when every value is identical; the mean is then the
// value itself and the deviations are all zero, whatever residue rounding
// the sum would have left.
func deviations(values []float64) (m float64, d []float64, varies bool) {
	d = make([]float64, len(values))
	for _, v := range values[1:] {
		if v != values[0] {
			varies = true
			break
		}
	}
	if !varies {
		return values[0], d, false
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	m = sum / float64(len(values))
	for i, v := range values {
		d[i] = v - m
	}
	return m, d, true
}
