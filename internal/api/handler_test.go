package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/quotegate/internal/domain/dto"
	"github.com/guttosm/quotegate/internal/domain/models"
	"github.com/guttosm/quotegate/internal/sanitize"
	"github.com/guttosm/quotegate/internal/service"
)

type mockStockService struct {
	info    map[string]any
	records []sanitize.Record
	series  *sanitize.PriceSeries
	err     error

	gotTicker  string
	gotKind    models.Kind
	gotTickers []string
	gotStart   time.Time
	gotEnd     time.Time
}

func (m *mockStockService) Info(_ context.Context, ticker string) (map[string]any, error) {
	m.gotTicker = ticker
	return m.info, m.err
}

func (m *mockStockService) Dataset(_ context.Context, ticker string, kind models.Kind) ([]sanitize.Record, error) {
	m.gotTicker, m.gotKind = ticker, kind
	return m.records, m.err
}

func (m *mockStockService) ClosePrices(_ context.Context, tickers []string) (*sanitize.PriceSeries, error) {
	m.gotTickers = tickers
	return m.series, m.err
}

func (m *mockStockService) ClosePricesRange(_ context.Context, tickers []string, start, end time.Time) (*sanitize.PriceSeries, error) {
	m.gotTickers, m.gotStart, m.gotEnd = tickers, start, end
	return m.series, m.err
}

var _ service.StockService = (*mockStockService)(nil)

func setupRouterWithMock(s service.StockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(NewHandler(s), time.Second)
}

func f64(v float64) *float64 { return &v }

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Message
}

func TestGetInfo_TableDriven(t *testing.T) {
	cases := []struct {
		name    string
		svc     *mockStockService
		path    string
		status  int
		wantMsg string
	}{
		{
			name:   "success",
			svc:    &mockStockService{info: map[string]any{"longName": "Apple Inc.", "sector": "Technology"}},
			path:   "/stock/AAPL",
			status: http.StatusOK,
		},
		{
			name:    "blank ticker",
			svc:     &mockStockService{err: service.ErrInvalidInput},
			path:    "/stock/%20",
			status:  http.StatusBadRequest,
			wantMsg: "invalid input",
		},
		{
			name:    "upstream failure surfaces raw message",
			svc:     &mockStockService{err: errors.New("lookup ZZZZ: upstream http 404: Quote not found")},
			path:    "/stock/ZZZZ",
			status:  http.StatusInternalServerError,
			wantMsg: "lookup ZZZZ: upstream http 404: Quote not found",
		},
		{
			name:    "empty ticker is an unknown route",
			svc:     &mockStockService{},
			path:    "/stock/",
			status:  http.StatusNotFound,
			wantMsg: "route not found",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.status, w.Code)
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, errorMessage(t, w.Body.Bytes()))
				return
			}
			assert.JSONEq(t, `{"longName":"Apple Inc.","sector":"Technology"}`, w.Body.String())
		})
	}
}

func TestGetInfo_PassesRawTicker(t *testing.T) {
	svc := &mockStockService{info: map[string]any{}}
	r := setupRouterWithMock(svc)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stock/%20", nil))
	assert.Equal(t, " ", svc.gotTicker)
}

func TestGetDataset_TableDriven(t *testing.T) {
	rec := sanitize.Record{{Name: "date", Value: "2024-05-10"}, {Name: "dividends", Value: 0.25}}

	cases := []struct {
		name     string
		svc      *mockStockService
		path     string
		status   int
		wantKind models.Kind
		wantBody string
	}{
		{
			name:     "dividends",
			svc:      &mockStockService{records: []sanitize.Record{rec}},
			path:     "/stock/AAPL/dividends",
			status:   http.StatusOK,
			wantKind: models.KindDividends,
			wantBody: `[{"date":"2024-05-10","dividends":0.25}]`,
		},
		{
			name:     "all rows dropped is an empty list",
			svc:      &mockStockService{records: []sanitize.Record{}},
			path:     "/stock/AAPL/growth_estimates",
			status:   http.StatusOK,
			wantKind: models.KindGrowthEstimates,
			wantBody: `[]`,
		},
		{
			name:     "no dividends",
			svc:      &mockStockService{err: &service.NoDataError{Dataset: "dividends"}},
			path:     "/stock/AAPL/dividends",
			status:   http.StatusNotFound,
			wantKind: models.KindDividends,
			wantBody: `{"error":"No dividends data available"}`,
		},
		{
			name:     "income_stmt alias",
			svc:      &mockStockService{records: []sanitize.Record{}},
			path:     "/stock/AAPL/income_stmt",
			status:   http.StatusOK,
			wantKind: models.KindIncomeStatement,
			wantBody: `[]`,
		},
		{
			name:     "upstream failure",
			svc:      &mockStockService{err: errors.New("unmarshal response: unexpected end of JSON input")},
			path:     "/stock/AAPL/cashflow",
			status:   http.StatusInternalServerError,
			wantKind: models.KindCashflow,
			wantBody: `{"error":"unmarshal response: unexpected end of JSON input"}`,
		},
		{
			name:     "unknown dataset",
			svc:      &mockStockService{},
			path:     "/stock/AAPL/options",
			status:   http.StatusNotFound,
			wantBody: `{"error":"route not found"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
			assert.Equal(t, tc.wantKind, tc.svc.gotKind)
		})
	}
}

func TestGetDataset_EveryKindIsRouted(t *testing.T) {
	for _, kind := range service.Kinds() {
		svc := &mockStockService{records: []sanitize.Record{}}
		r := setupRouterWithMock(svc)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stock/MSFT/"+string(kind), nil))
		assert.Equal(t, http.StatusOK, w.Code, kind)
		assert.Equal(t, kind, svc.gotKind)
		assert.Equal(t, "MSFT", svc.gotTicker)
	}
}

func TestPostClosePrices_TableDriven(t *testing.T) {
	series := &sanitize.PriceSeries{
		Dates: []string{"2024-01-02", "2024-01-03"},
		Prices: map[string][]*float64{
			"AAPL": {f64(185.64), f64(184.25)},
			"MSFT": {f64(370.87), nil},
		},
	}

	cases := []struct {
		name     string
		svc      *mockStockService
		body     string
		status   int
		wantBody string
		wantMsg  string
	}{
		{
			name:     "two tickers",
			svc:      &mockStockService{series: series},
			body:     `{"tickers":["AAPL","MSFT"]}`,
			status:   http.StatusOK,
			wantBody: `{"dates":["2024-01-02","2024-01-03"],"prices":{"AAPL":[185.64,184.25],"MSFT":[370.87,null]}}`,
		},
		{name: "malformed json", svc: &mockStockService{}, body: `{"tickers":`, status: http.StatusBadRequest},
		{name: "missing tickers", svc: &mockStockService{}, body: `{}`, status: http.StatusBadRequest},
		{name: "empty list", svc: &mockStockService{}, body: `{"tickers":[]}`, status: http.StatusBadRequest},
		{name: "empty element", svc: &mockStockService{}, body: `{"tickers":["AAPL",""]}`, status: http.StatusBadRequest},
		{name: "wrong type", svc: &mockStockService{}, body: `{"tickers":"AAPL"}`, status: http.StatusBadRequest},
		{
			name:    "no data",
			svc:     &mockStockService{err: &service.NoDataError{Dataset: "price"}},
			body:    `{"tickers":["ZZZZ"]}`,
			status:  http.StatusNotFound,
			wantMsg: "No price data available",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(http.MethodPost, "/stocks/close_prices", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code, w.Body.String())

			switch {
			case tc.wantBody != "":
				assert.JSONEq(t, tc.wantBody, w.Body.String())
				assert.Equal(t, []string{"AAPL", "MSFT"}, tc.svc.gotTickers)
			case tc.wantMsg != "":
				assert.Equal(t, tc.wantMsg, errorMessage(t, w.Body.Bytes()))
			default:
				assert.Contains(t, errorMessage(t, w.Body.Bytes()), "invalid request body")
				assert.Nil(t, tc.svc.gotTickers)
			}
		})
	}
}

func TestGetClosePricesRange_TableDriven(t *testing.T) {
	series := &sanitize.PriceSeries{Dates: []string{"2024-01-02"}, Prices: map[string][]*float64{"AAPL": {f64(185.64)}}}

	cases := []struct {
		name    string
		svc     *mockStockService
		query   string
		status  int
		wantMsg string
	}{
		{name: "success", svc: &mockStockService{series: series}, query: "?ticker=AAPL&ticker=MSFT&start=2024-01-01&end=2024-01-31", status: http.StatusOK},
		{name: "no ticker", svc: &mockStockService{}, query: "?start=2024-01-01&end=2024-01-31", status: http.StatusBadRequest, wantMsg: "at least one ticker query parameter is required"},
		{name: "missing start", svc: &mockStockService{}, query: "?ticker=AAPL&end=2024-01-31", status: http.StatusBadRequest, wantMsg: "start is required"},
		{name: "missing end", svc: &mockStockService{}, query: "?ticker=AAPL&start=2024-01-01", status: http.StatusBadRequest, wantMsg: "end is required"},
		{name: "invalid month", svc: &mockStockService{}, query: "?ticker=AAPL&start=2024-13-01&end=2024-01-31", status: http.StatusBadRequest, wantMsg: "invalid date format, expected YYYY-MM-DD"},
		{name: "wrong layout", svc: &mockStockService{}, query: "?ticker=AAPL&start=2024-01-01&end=01/31/2024", status: http.StatusBadRequest, wantMsg: "invalid date format, expected YYYY-MM-DD"},
		{name: "inverted range", svc: &mockStockService{err: service.ErrInvalidInput}, query: "?ticker=AAPL&start=2024-02-01&end=2024-01-01", status: http.StatusBadRequest},
		{name: "no data", svc: &mockStockService{err: &service.NoDataError{Dataset: "price"}}, query: "?ticker=AAPL&start=2024-01-06&end=2024-01-07", status: http.StatusNotFound, wantMsg: "No price data available"},
		{name: "upstream failure", svc: &mockStockService{err: errors.New("price history AAPL: context deadline exceeded")}, query: "?ticker=AAPL&start=2024-01-01&end=2024-01-31", status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stocks/close_prices_range"+tc.query, nil))
			require.Equal(t, tc.status, w.Code, w.Body.String())
			if tc.wantMsg != "" {
				assert.Equal(t, tc.wantMsg, errorMessage(t, w.Body.Bytes()))
			}
			if tc.status == http.StatusOK {
				assert.Equal(t, []string{"AAPL", "MSFT"}, tc.svc.gotTickers)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), tc.svc.gotStart)
				assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), tc.svc.gotEnd)
			}
		})
	}
}
