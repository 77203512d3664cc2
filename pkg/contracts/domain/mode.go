package domain

import (
	"fmt"
	"strings"
)

// VisualizationMode is the dashboard view requested by the caller.
type VisualizationMode string

const (
	ModeCorrelation     VisualizationMode = "correlation"
	ModeMonthlyAverages VisualizationMode = "monthly-averages"
	ModeDollarAverage   VisualizationMode = "dollar-average"
	ModeTrends          VisualizationMode = "trends"
	ModeDataExport      VisualizationMode = "data-export"
)

var modeLabels = map[VisualizationMode]string{
	ModeCorrelation:     "Correlação",
	ModeMonthlyAverages: "Médias Mensais",
	ModeDollarAverage:   "Média do Dólar",
	ModeTrends:          "Tendências",
	ModeDataExport:      "Exportação de Dados",
}

// Modes returns the fixed option set in selector order.
func Modes() []VisualizationMode {
	return []VisualizationMode{
		ModeCorrelation,
		ModeMonthlyAverages,
		ModeDollarAverage,
		ModeTrends,
		ModeDataExport,
	}
}

// Label returns the user-facing name of the mode.
func (m VisualizationMode) Label() string {
	return modeLabels[m]
}

// ParseMode accepts a slug or a label.
func ParseMode(s string) (VisualizationMode, error) {
	s = strings.TrimSpace(s)
	for _, m := range Modes() {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown visualization mode %q", s)
}
