package domain

import (
	"fmt"
	"strings"
	"time"
)

// RateKind selects which dollar rate column is shown.
type RateKind string

const (
	RateBuy  RateKind = "buy"
	RateSell RateKind = "sell"
)

// ParseRateKind accepts the API slugs as well as the column labels.
func ParseRateKind(s string) (RateKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "compra", "dólar compra", "dolar compra":
		return RateBuy, nil
	case "sell", "venda", "dólar venda", "dolar venda":
		return RateSell, nil
	}
	return "", fmt.Errorf("unknown rate kind %q", s)
}

// Column returns the canonical column name of the rate.
func (k RateKind) Column() string {
	if k == RateSell {
		return ColumnSellRate
	}
	return ColumnBuyRate
}

// Value returns the rate of this kind carried by r.
func (k RateKind) Value(r Record) Value {
	if k == RateSell {
		return r.SellRate
	}
	return r.BuyRate
}

// FilterCriteria is the date range, commodity subset and rate kind applied
// to the record set. Bounds are inclusive and compared by calendar day.
type FilterCriteria struct {
	DateFrom    time.Time `json:"date_from" validate:"required"`
	DateTo      time.Time `json:"date_to" validate:"required"`
	Commodities []string  `json:"commodities" validate:"dive,required"`
	RateKind    RateKind  `json:"rate_kind" validate:"required,oneof=buy sell"`
}

// Contains reports whether day falls inside the inclusive date range.
// An inverted range contains nothing.
func (c FilterCriteria) Contains(day time.Time) bool {
	from, to, d := DateOnly(c.DateFrom), DateOnly(c.DateTo), DateOnly(day)
	if from.After(to) {
		return false
	}
	return !d.Before(from) && !d.After(to)
}

// SelectedCommodities returns the commodity selection without blanks or
// duplicates, preserving selection order.
func (c FilterCriteria) SelectedCommodities() []string {
	seen := make(map[string]bool, len(c.Commodities))
	out := make([]string, 0, len(c.Commodities))
	for _, name := range c.Commodities {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Columns returns the display columns a view built with these criteria
// exposes: the date, the selected commodities and the selected rate.
func (c FilterCriteria) Columns() []string {
	cols := []string{ColumnDate}
	cols = append(cols, c.SelectedCommodities()...)
	return append(cols, c.RateKind.Column())
}
