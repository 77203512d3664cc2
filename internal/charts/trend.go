package charts

import (
	"fmt"

	"agrodash/pkg/contracts/domain"
)

// TrendLine renders the paired (x, y) observations of a view as a scatter
// plot and overlays the fitted line when model is not nil. Empty column
// names default to the selected rate and the first selected commodity.
func TrendLine(view domain.View, xColumn, yColumn string, model *domain.TrendModel, cfg Config) string {
	return toSVG(trendLine(view, xColumn, yColumn, model, cfg))
}

func trendLine(view domain.View, xColumn, yColumn string, model *domain.TrendModel, cfg Config) (Config, func(canvas)) {
	if xColumn == "" {
		xColumn = view.Criteria.RateKind.Column()
	}
	if yColumn == "" {
		if sel := view.Criteria.SelectedCommodities(); len(sel) > 0 {
			yColumn = sel[0]
		}
	}
	cfg = cfg.withDefaults(fmt.Sprintf("Tendência - %s x %s", yColumn, xColumn))

	var xs, ys []domain.Value
	if yColumn != "" {
		ySeries := view.Series(yColumn)
		for i, x := range view.Series(xColumn) {
			if y := ySeries[i]; x.Valid && y.Valid {
				xs = append(xs, x)
				ys = append(ys, y)
			}
		}
	}
	if len(xs) == 0 {
		return placeholder(cfg, "Dados insuficientes para a tendência")
	}

	xlo, xhi, _ := valueRange(xs, false)
	ylo, yhi, _ := valueRange(ys, false)

	return cfg, func(c canvas) {
		drawFrame(c, cfg)
		drawYAxis(c, cfg, ylo, yhi)

		px, py, pw, ph := cfg.plotArea()
		sx := func(v float64) float64 { return float64(px) + (v-xlo)/(xhi-xlo)*float64(pw) }
		sy := func(v float64) float64 { return float64(py+ph) - (v-ylo)/(yhi-ylo)*float64(ph) }

		for i := 0; i <= 4; i++ {
			v := xlo + (xhi-xlo)*float64(i)/4
			c.text(sx(v), float64(py+ph+18), fmt.Sprintf("%.2f", v), cfg.label(anchorMiddle))
		}
		c.text(float64(px)+float64(pw)/2, float64(py+ph+40), xColumn, cfg.label(anchorMiddle))

		for i := range xs {
			c.circle(sx(xs[i].Float64), sy(ys[i].Float64), 3, palette[0], 0.7)
		}

		caption := font{size: float64(cfg.FontSize), color: palette[4], anchor: anchorEnd}
		if model == nil {
			caption.color = "#999999"
			c.text(float64(px+pw), float64(py-6), "Tendência indisponível", caption)
			return
		}

		c.clip(float64(px), float64(py), float64(pw), float64(ph), "trend", func() {
			c.line(sx(xlo), sy(model.Predict(xlo)), sx(xhi), sy(model.Predict(xhi)), stroke{color: palette[4], width: 2})
		})
		label := fmt.Sprintf("y = %.4fx + %.4f", model.Slope, model.Intercept)
		if model.RSquared.Valid {
			label += fmt.Sprintf("  R² = %.3f", model.RSquared.Float64)
		}
		c.text(float64(px+pw), float64(py-6), label, caption)
	}
}
