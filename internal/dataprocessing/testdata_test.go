package dataprocessing

import (
	"time"

	"agrodash/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rec(row int, date time.Time, soja, milho, trigo, buy, sell domain.Value) domain.Record {
	return domain.Record{
		Row:     row,
		Date:    date,
		HasDate: !date.IsZero(),
		Prices: map[string]domain.Value{
			domain.ColumnSoja:  soja,
			domain.ColumnMilho: milho,
			domain.ColumnTrigo: trigo,
		},
		BuyRate:  buy,
		SellRate: sell,
	}
}

var v = domain.Some

// scenarioRecords is the three-record example: Soja 10, 20, 30 on
// 2024-01-05, 2024-01-20 and 2024-02-10.
func scenarioRecords() []domain.Record {
	return []domain.Record{
		rec(2, day(2024, 1, 5), v(10), v(50), domain.Absent(), v(4.90), v(4.91)),
		rec(3, day(2024, 1, 20), v(20), domain.Absent(), v(70), v(4.95), v(4.96)),
		rec(4, day(2024, 2, 10), v(30), v(60), v(80), v(5.00), v(5.01)),
	}
}

func criteria(from, to time.Time, commodities ...string) domain.FilterCriteria {
	return domain.FilterCriteria{
		DateFrom:    from,
		DateTo:      to,
		Commodities: commodities,
		RateKind:    domain.RateBuy,
	}
}
