package domain

import (
	"time"
)

// MonthlyBucket holds per-column means for one calendar month. A column
// with no contributing values is absent, never zero.
type MonthlyBucket struct {
	Year    int              `json:"year"`
	Month   time.Month       `json:"month"`
	Values  map[string]Value `json:"values"`
	Counts  map[string]int   `json:"counts"`
	Records int              `json:"records"`
}

// Label renders the bucket as "Jan/2024".
func (b MonthlyBucket) Label() string {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan/2006")
}

// Before orders buckets chronologically.
func (b MonthlyBucket) Before(o MonthlyBucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	return b.Month < o.Month
}

// MonthlySummary is the ordered output of the monthly aggregator.
type MonthlySummary struct {
	Columns []string        `json:"columns"`
	Buckets []MonthlyBucket `json:"buckets"`
}

// Table renders the summary with a leading month column.
func (s MonthlySummary) Table(title string) Table {
	t := Table{Title: title, Columns: append([]string{ColumnMonth}, s.Columns...)}
	for _, b := range s.Buckets {
		row := []Cell{TextCell(b.Label())}
		for _, c := range s.Columns {
			row = append(row, NumberCell(b.Values[c]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// ColumnMonth heads the month column of aggregated tables.
const ColumnMonth = "Ano-Mês"

// TrendModel is an ordinary least squares fit of YColumn on XColumn.
type TrendModel struct {
	XColumn   string  `json:"x_column"`
	YColumn   string  `json:"y_column"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  Value   `json:"r_squared"`
	Points    int     `json:"points"`
	// Predicted is aligned to the input series; absent where x is absent.
	Predicted []Value `json:"predicted"`
}

// Predict evaluates the fitted line at x.
func (m TrendModel) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// CorrelationMatrix is a pairwise-complete Pearson matrix.
type CorrelationMatrix struct {
	Columns []string  `json:"columns"`
	Values  [][]Value `json:"values"`
}

// At returns the coefficient between columns i and j.
func (m CorrelationMatrix) At(i, j int) Value {
	return m.Values[i][j]
}

// Table renders the matrix with row labels in the first column.
func (m CorrelationMatrix) Table(title string) Table {
	t := Table{Title: title, Columns: append([]string{""}, m.Columns...)}
	for i, name := range m.Columns {
		row := []Cell{TextCell(name)}
		for j := range m.Columns {
			row = append(row, NumberCell(m.Values[i][j]))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// DollarAverage summarizes the selected rate column.
type DollarAverage struct {
	Column  string          `json:"column"`
	Overall Value           `json:"overall"`
	Count   int             `json:"count"`
	Monthly []MonthlyBucket `json:"monthly"`
}
