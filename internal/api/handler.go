package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/quotegate/internal/domain/dto"
	"github.com/guttosm/quotegate/internal/domain/models"
	"github.com/guttosm/quotegate/internal/middleware"
	"github.com/guttosm/quotegate/internal/sanitize"
	"github.com/guttosm/quotegate/internal/service"
)

// Handler provides the HTTP handlers of the stock gateway.
//
// Responsibilities:
//   - Extract and validate path, query and body parameters
//   - Call the StockService with the request context
//   - Map service errors to 400 / 404 / 500 with a {"error": ...} body
type Handler struct {
	svc service.StockService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.StockService) *Handler {
	return &Handler{svc: svc}
}

// GetInfo handles GET /stock/:ticker.
//
// GetInfo godoc
// @Summary      Company info
// @Description  Returns the provider's company info object for the ticker, unfiltered
// @Tags         stock
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {object}  map[string]interface{}  "Success"
// @Failure      400     {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500     {object}  dto.ErrorResponse       "Internal Error"
// @Router       /stock/{ticker} [get]
func (h *Handler) GetInfo(c *gin.Context) {
	info, err := h.svc.Info(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// GetDataset returns the handler serving GET /stock/:ticker/<kind>.
//
// Responses:
//   - 200 OK: sanitized records (rows with a missing value are removed; may be []).
//   - 404 Not Found: the provider has no such dataset for the ticker.
//   - 500 Internal Server Error: any provider or decoding failure, raw message.
//
// GetDataset godoc
// @Summary      Per-ticker dataset
// @Description  Returns one tabular dataset as a list of records, index field first
// @Tags         stock
// @Produce      json
// @Param        ticker  path      string  true  "Ticker symbol" example(AAPL)
// @Success      200     {array}   object             "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse  "Not Found"
// @Failure      500     {object}  dto.ErrorResponse  "Internal Error"
// @Router       /stock/{ticker}/growth_estimates [get]
// @Router       /stock/{ticker}/earnings [get]
// @Router       /stock/{ticker}/financials [get]
// @Router       /stock/{ticker}/income_stmt [get]
// @Router       /stock/{ticker}/balance_sheet [get]
// @Router       /stock/{ticker}/cashflow [get]
// @Router       /stock/{ticker}/dividends [get]
// @Router       /stock/{ticker}/splits [get]
// @Router       /stock/{ticker}/institutional_holders [get]
// @Router       /stock/{ticker}/sustainability [get]
// @Router       /stock/{ticker}/recommendations [get]
func (h *Handler) GetDataset(kind models.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.svc.Dataset(c.Request.Context(), c.Param("ticker"), kind)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// PostClosePrices handles POST /stocks/close_prices.
//
// PostClosePrices godoc
// @Summary      Trailing close prices
// @Description  Daily closes over the trailing window for every ticker, aligned on one date axis
// @Tags         stocks
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ClosePricesRequest   true  "Tickers"
// @Success      200   {object}  dto.PriceSeriesResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse        "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse        "Not Found"
// @Failure      500   {object}  dto.ErrorResponse        "Internal Error"
// @Router       /stocks/close_prices [post]
func (h *Handler) PostClosePrices(c *gin.Context) {
	var req dto.ClosePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	series, err := h.svc.ClosePrices(c.Request.Context(), req.Tickers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPriceSeriesResponse(series))
}

// GetClosePricesRange handles GET /stocks/close_prices_range.
//
// Query Parameters:
//   - ticker (string, required, repeatable)
//   - start, end (string, required): YYYY-MM-DD, both inclusive.
//
// GetClosePricesRange godoc
// @Summary      Close prices for a date range
// @Description  Daily closes between start and end (inclusive) for every ticker, aligned on one date axis
// @Tags         stocks
// @Produce      json
// @Param        ticker  query     []string  true  "Ticker symbol (repeatable)" collectionFormat(multi)
// @Param        start   query     string    true  "Start date YYYY-MM-DD" example(2024-01-01)
// @Param        end     query     string    true  "End date YYYY-MM-DD" example(2024-01-31)
// @Success      200     {object}  dto.PriceSeriesResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse        "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse        "Not Found"
// @Failure      500     {object}  dto.ErrorResponse        "Internal Error"
// @Router       /stocks/close_prices_range [get]
func (h *Handler) GetClosePricesRange(c *gin.Context) {
	tickers := c.QueryArray("ticker")
	if len(tickers) == 0 {
		middleware.AbortWithError(c, http.StatusBadRequest, "at least one ticker query parameter is required", nil)
		return
	}

	start, ok := dateParam(c, "start")
	if !ok {
		return
	}
	end, ok := dateParam(c, "end")
	if !ok {
		return
	}

	series, err := h.svc.ClosePricesRange(c.Request.Context(), tickers, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPriceSeriesResponse(series))
}

// dateParam reads a required YYYY-MM-DD query parameter, answering 400 itself on failure.
func dateParam(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		middleware.AbortWithError(c, http.StatusBadRequest, name+" is required", nil)
		return time.Time{}, false
	}
	d, err := time.Parse(sanitize.DateLayout, raw)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return d, true
}

// respondError maps service errors onto the gateway's status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		middleware.AbortWithError(c, http.StatusBadRequest, "", err)
	case errors.Is(err, service.ErrNoData):
		middleware.AbortWithError(c, http.StatusNotFound, "", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "", err)
	}
}

func toPriceSeriesResponse(s *sanitize.PriceSeries) dto.PriceSeriesResponse {
	return dto.PriceSeriesResponse{Dates: s.Dates, Prices: s.Prices}
}
