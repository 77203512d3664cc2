package domain

import (
	"time"
)

// Canonical column names, as displayed and exported.
const (
	ColumnDate     = "Data"
	ColumnSoja     = "Soja"
	ColumnMilho    = "Milho"
	ColumnTrigo    = "Trigo"
	ColumnBuyRate  = "Dólar Compra"
	ColumnSellRate = "Dólar Venda"
)

// DefaultCommodities lists the commodity columns of the standard source
// sheet in display order.
func DefaultCommodities() []string {
	return []string{ColumnSoja, ColumnMilho, ColumnTrigo}
}

// Record is one normalized observation. Records are created once by the
// normalizer and never mutated afterwards.
type Record struct {
	// Row is the 1-based source row, kept for diagnostics.
	Row      int              `json:"row"`
	Date     time.Time        `json:"date"`
	HasDate  bool             `json:"has_date"`
	Prices   map[string]Value `json:"prices"`
	BuyRate  Value            `json:"buy_rate"`
	SellRate Value            `json:"sell_rate"`
}

// Field returns the value stored under a canonical column name and
// whether the record carries that field at all. Rate columns are always
// present; commodity columns are present when the source sheet had them.
func (r Record) Field(column string) (Value, bool) {
	switch column {
	case ColumnBuyRate:
		return r.BuyRate, true
	case ColumnSellRate:
		return r.SellRate, true
	}
	v, ok := r.Prices[column]
	return v, ok
}

// Day returns the record date truncated to the calendar day.
func (r Record) Day() time.Time {
	return DateOnly(r.Date)
}

// DateOnly truncates t to midnight UTC of the same calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
