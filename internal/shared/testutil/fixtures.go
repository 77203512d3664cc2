package testutil

import (
	"time"

	"agrodash/pkg/contracts/domain"
)

// Day returns midnight UTC of the given date.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgroRecords returns five records over January and February 2024. Milho
// is absent on 2024-01-20 and the sell rate is absent on 2024-02-20.
func AgroRecords() []domain.Record {
	some := domain.Some
	rec := func(row int, date time.Time, soja, milho, trigo, buy, sell domain.Value) domain.Record {
		return domain.Record{
			Row:     row,
			Date:    date,
			HasDate: true,
			Prices: map[string]domain.Value{
				domain.ColumnSoja:  soja,
				domain.ColumnMilho: milho,
				domain.ColumnTrigo: trigo,
			},
			BuyRate:  buy,
			SellRate: sell,
		}
	}
	return []domain.Record{
		rec(2, Day(2024, 1, 5), some(120), some(55), some(70), some(4.90), some(4.91)),
		rec(3, Day(2024, 1, 20), some(125), domain.Absent(), some(72), some(4.95), some(4.96)),
		rec(4, Day(2024, 2, 1), some(130), some(58), some(75), some(5.00), some(5.01)),
		rec(5, Day(2024, 2, 10), some(128), some(57), some(74), some(4.98), some(4.99)),
		rec(6, Day(2024, 2, 20), some(135), some(60), some(78), some(5.05), domain.Absent()),
	}
}

// FullCriteria selects every AgroRecords date and commodity with the buy
// rate.
func FullCriteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		DateFrom:    Day(2024, 1, 1),
		DateTo:      Day(2024, 2, 29),
		Commodities: domain.DefaultCommodities(),
		RateKind:    domain.RateBuy,
	}
}
