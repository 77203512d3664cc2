package charts

import (
	"fmt"
	"math"

	"agrodash/pkg/contracts/domain"
)

// Heatmap renders a correlation matrix as a colored grid, blue for -1
// through white to red for +1. Absent coefficients are drawn grey.
func Heatmap(m domain.CorrelationMatrix, cfg Config) string {
	return toSVG(heatmap(m, cfg))
}

func heatmap(m domain.CorrelationMatrix, cfg Config) (Config, func(canvas)) {
	cfg = cfg.withDefaults("Mapa de Calor - Correlações Diárias")
	n := len(m.Columns)
	if n == 0 {
		return placeholder(cfg, "Sem dados para correlação")
	}

	return cfg, func(c canvas) {
		drawFrame(c, cfg)

		px, py, pw, ph := cfg.plotArea()
		cell := math.Min(float64(pw), float64(ph)) / float64(n)
		x0 := float64(px) + (float64(pw)-cell*float64(n))/2
		y0 := float64(py)

		for i, row := range m.Columns {
			y := y0 + cell*float64(i)
			c.text(x0-6, y+cell/2+4, row, cfg.label(anchorEnd))
			for j := range m.Columns {
				x := x0 + cell*float64(j)
				v := m.At(i, j)
				fill, label, ink := cfg.AbsentColor, absentLabel, "#666666"
				if v.Valid {
					fill = divergingColor(v.Float64)
					label = fmt.Sprintf("%.2f", v.Float64)
					ink = "#000000"
					if math.Abs(v.Float64) > 0.6 {
						ink = "#ffffff"
					}
				}
				c.rect(x, y, cell, cell, fill, "#ffffff", "")
				c.text(x+cell/2, y+cell/2+4, label, font{size: float64(cfg.FontSize), color: ink, anchor: anchorMiddle})
			}
		}
		for j, col := range m.Columns {
			c.text(x0+cell*float64(j)+cell/2, y0+cell*float64(n)+16, col, cfg.label(anchorMiddle))
		}
	}
}

// divergingColor maps r in [-1, 1] onto a blue-white-red scale.
func divergingColor(r float64) string {
	r = math.Max(-1, math.Min(1, r))
	blue := [3]float64{59, 76, 192}
	red := [3]float64{180, 4, 38}
	white := [3]float64{242, 242, 242}

	from, t := blue, 1+r
	if r >= 0 {
		from, t = red, 1-r
	}
	// t runs from 0 at the extreme color to 1 at white.
	var c [3]int
	for k := range c {
		c[k] = int(math.Round(from[k] + (white[k]-from[k])*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
