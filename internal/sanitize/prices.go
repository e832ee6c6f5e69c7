package sanitize

import (
	"math"
	"sort"
	"time"

	"github.com/guttosm/quotegate/internal/domain/models"
)

// PriceSeries is a date-aligned set of close-price columns.
//
// Invariant: len(Prices[t]) == len(Dates) for every requested ticker t.
type PriceSeries struct {
	Dates  []string
	Prices map[string][]*float64
}

// Empty reports whether the series has no trading dates.
func (p *PriceSeries) Empty() bool {
	return p == nil || len(p.Dates) == 0
}

// AssemblePriceSeries aligns raw per-ticker closes on one ascending date axis.
//
// Behavior:
//   - The axis is the union, over the requested tickers, of days holding a finite close.
//   - Each requested ticker gets one entry per date: its close, or nil.
//   - A ticker absent from raw gets an all-nil column; it is not an error.
//   - Duplicate tickers resolve to the same column.
//   - Dates are never dropped, so columns stay calendar-aligned.
func AssemblePriceSeries(tickers []string, raw models.PriceColumns) *PriceSeries {
	closes := make(map[string]map[time.Time]float64, len(tickers))
	axis := make(map[time.Time]struct{})

	for _, ticker := range tickers {
		if _, done := closes[ticker]; done {
			continue
		}
		byDay := make(map[time.Time]float64)
		for _, p := range raw[ticker] {
			if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
				continue
			}
			day := truncateToDate(p.Date)
			byDay[day] = p.Close
			axis[day] = struct{}{}
		}
		closes[ticker] = byDay
	}

	days := make([]time.Time, 0, len(axis))
	for d := range axis {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	series := &PriceSeries{
		Dates:  make([]string, len(days)),
		Prices: make(map[string][]*float64, len(closes)),
	}
	for i, d := range days {
		series.Dates[i] = d.Format(DateLayout)
	}
	for ticker, byDay := range closes {
		col := make([]*float64, len(days))
		for i, d := range days {
			if v, ok := byDay[d]; ok {
				col[i] = &v
			}
		}
		series.Prices[ticker] = col
	}
	return series
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
