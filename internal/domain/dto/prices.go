package dto

// ClosePricesRequest is the body of POST /stocks/close_prices.
type ClosePricesRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1,dive,required" example:"AAPL,MSFT"`
}

// PriceSeriesResponse is the date-aligned close-price payload.
//
// Every array in Prices has exactly len(Dates) entries; null marks a day without a close.
type PriceSeriesResponse struct {
	Dates  []string              `json:"dates" example:"2024-01-02,2024-01-03"`
	Prices map[string][]*float64 `json:"prices" swaggertype:"object"`
}
