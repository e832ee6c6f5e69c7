package models

import "time"

// PricePoint is one daily close. Close is NaN when the provider reported no value.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceColumns maps a ticker to its daily closes for a date range.
// Tickers the provider did not know are absent from the map.
type PriceColumns map[string][]PricePoint
