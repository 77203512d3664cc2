package charts

import (
	"fmt"

	"agrodash/pkg/contracts/domain"
)

// GroupedBars renders one group per month with a bar per column.
func GroupedBars(s domain.MonthlySummary, cfg Config) string {
	return toSVG(groupedBars(s, cfg))
}

func groupedBars(s domain.MonthlySummary, cfg Config) (Config, func(canvas)) {
	cfg = cfg.withDefaults("Médias Mensais - Commodities e Dólar")
	if len(s.Buckets) == 0 || len(s.Columns) == 0 {
		return placeholder(cfg, "Sem dados no período selecionado")
	}

	var all []domain.Value
	for _, b := range s.Buckets {
		for _, c := range s.Columns {
			all = append(all, b.Values[c])
		}
	}
	lo, hi, ok := valueRange(all, true)
	if !ok {
		return placeholder(cfg, "Sem valores para as colunas selecionadas")
	}

	return cfg, func(c canvas) {
		drawFrame(c, cfg)
		drawLegend(c, cfg, s.Columns)
		drawYAxis(c, cfg, lo, hi)

		px, py, pw, ph := cfg.plotArea()
		groupW := float64(pw) / float64(len(s.Buckets))
		barW := groupW * 0.8 / float64(len(s.Columns))
		scale := func(v float64) float64 {
			return float64(py+ph) - (v-lo)/(hi-lo)*float64(ph)
		}
		zero := scale(0)
		small := font{size: 9, color: "#999999", anchor: anchorMiddle}

		for i, b := range s.Buckets {
			gx := float64(px) + groupW*float64(i) + groupW*0.1
			for j, col := range s.Columns {
				x := gx + barW*float64(j)
				v := b.Values[col]
				if !v.Valid {
					c.text(x+barW/2, zero-4, absentLabel, small)
					continue
				}
				top, h := scale(v.Float64), zero-scale(v.Float64)
				if h < 0 {
					top, h = zero, -h
				}
				c.rect(x, top, barW, h, palette[j%len(palette)], "",
					fmt.Sprintf("%s %s: %.2f", col, b.Label(), v.Float64))
			}
			c.text(gx+groupW*0.4, float64(py+ph+18), b.Label(), cfg.label(anchorMiddle))
		}
	}
}

// RateBars renders the monthly means of the selected dollar rate with a
// dashed line at the period average.
func RateBars(d domain.DollarAverage, cfg Config) string {
	return toSVG(rateBars(d, cfg))
}

func rateBars(d domain.DollarAverage, cfg Config) (Config, func(canvas)) {
	cfg = cfg.withDefaults("Média do " + d.Column)
	if len(d.Monthly) == 0 {
		return placeholder(cfg, "Sem dados no período selecionado")
	}

	values := make([]domain.Value, 0, len(d.Monthly)+1)
	for _, b := range d.Monthly {
		values = append(values, b.Values[d.Column])
	}
	values = append(values, d.Overall)
	lo, hi, ok := valueRange(values, false)
	if !ok {
		return placeholder(cfg, "Sem cotações no período selecionado")
	}

	return cfg, func(c canvas) {
		drawFrame(c, cfg)
		drawYAxis(c, cfg, lo, hi)

		px, py, pw, ph := cfg.plotArea()
		slot := float64(pw) / float64(len(d.Monthly))
		scale := func(v float64) float64 {
			return float64(py+ph) - (v-lo)/(hi-lo)*float64(ph)
		}
		base := float64(py + ph)

		for i, b := range d.Monthly {
			x := float64(px) + slot*float64(i) + slot*0.15
			w := slot * 0.7
			if v := b.Values[d.Column]; v.Valid {
				top := scale(v.Float64)
				c.rect(x, top, w, base-top, palette[3], "", "")
				c.text(x+w/2, top-4, fmt.Sprintf("%.2f", v.Float64), font{size: 9, color: cfg.TextColor, anchor: anchorMiddle})
			} else {
				c.text(x+w/2, base-4, absentLabel, font{size: 9, color: "#999999", anchor: anchorMiddle})
			}
			c.text(x+w/2, float64(py+ph+18), b.Label(), cfg.label(anchorMiddle))
		}

		if d.Overall.Valid {
			y := scale(d.Overall.Float64)
			c.line(float64(px), y, float64(px+pw), y, stroke{color: palette[4], width: 2, dash: []float64{6, 4}})
			c.text(float64(px+pw), y-6, fmt.Sprintf("Média: %.2f", d.Overall.Float64),
				font{size: float64(cfg.FontSize), color: palette[4], anchor: anchorEnd})
		}
	}
}
