package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/quotegate/internal/domain/models"
	"github.com/guttosm/quotegate/internal/logger"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *errorBody    `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
		Splits map[string]struct {
			Date        int64   `json:"date"`
			Numerator   float64 `json:"numerator"`
			Denominator float64 `json:"denominator"`
		} `json:"splits"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// eventSources are the datasets served from chart events.
var eventSources = map[models.Kind]func(*chartResult) *models.Table{
	models.KindDividends: dividendsTable,
	models.KindSplits:    splitsTable,
}

// chart fetches /v8/finance/chart for ticker.
func (c *Client) chart(ctx context.Context, ticker string, q url.Values) (*chartResult, error) {
	var body chartResponse
	if err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), q, &body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, body.Chart.Error.asAPIError(http.StatusBadGateway)
	}
	if len(body.Chart.Result) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "empty chart result for " + ticker}
	}
	return &body.Chart.Result[0], nil
}

// chartEvents fetches the full dividend and split history of ticker.
func (c *Client) chartEvents(ctx context.Context, ticker string) (*chartResult, error) {
	q := url.Values{}
	q.Set("range", "max")
	q.Set("interval", "1mo")
	q.Set("events", "div,split")
	return c.chart(ctx, ticker, q)
}

func dividendsTable(res *chartResult) *models.Table {
	t := models.NewTable("date", "dividends")
	type event struct {
		date   time.Time
		amount float64
	}
	events := make([]event, 0, len(res.Events.Dividends))
	for _, d := range res.Events.Dividends {
		events = append(events, event{exchangeDate(d.Date, res.Meta.GMTOffset), d.Amount})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].date.Before(events[j].date) })
	for _, e := range events {
		t.AddRow(e.date, map[string]any{"dividends": e.amount})
	}
	return t
}

func splitsTable(res *chartResult) *models.Table {
	t := models.NewTable("date", "stock_splits")
	type event struct {
		date  time.Time
		ratio any
	}
	events := make([]event, 0, len(res.Events.Splits))
	for _, s := range res.Events.Splits {
		var ratio any
		if s.Denominator != 0 {
			ratio = s.Numerator / s.Denominator
		}
		events = append(events, event{exchangeDate(s.Date, res.Meta.GMTOffset), ratio})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].date.Before(events[j].date) })
	for _, e := range events {
		t.AddRow(e.date, map[string]any{"stock_splits": e.ratio})
	}
	return t
}

// closes fetches daily closes of ticker within [start, end] (both inclusive dates).
func (c *Client) closes(ctx context.Context, ticker string, start, end time.Time) ([]models.PricePoint, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "history")

	res, err := c.chart(ctx, ticker, q)
	if err != nil {
		return nil, err
	}

	var closes []*float64
	if len(res.Indicators.Quote) > 0 {
		closes = res.Indicators.Quote[0].Close
	}
	points := make([]models.PricePoint, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		var v *float64
		if i < len(closes) {
			v = closes[i]
		}
		points = append(points, models.PricePoint{
			Date:  exchangeDate(ts, res.Meta.GMTOffset),
			Close: closeOrNaN(v),
		})
	}
	return points, nil
}

// PriceHistory fetches daily closes for every distinct ticker in [start, end].
//
// Behavior:
//   - One call per distinct ticker, at most maxParallel in flight.
//   - A ticker the provider does not know is left out of the result.
//   - Any other failure cancels the remaining calls and is returned.
func (c *Client) PriceHistory(ctx context.Context, tickers []string, start, end time.Time) (models.PriceColumns, error) {
	distinct := make([]string, 0, len(tickers))
	seen := make(map[string]struct{}, len(tickers))
	for _, t := range tickers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		distinct = append(distinct, t)
	}

	results := make([][]models.PricePoint, len(distinct))
	found := make([]bool, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxParallel)
	for i, ticker := range distinct {
		g.Go(func() error {
			points, err := c.closes(gctx, ticker, start, end)
			if errors.Is(err, ErrNotFound) {
				logger.FromContext(ctx).Info().Str("ticker", ticker).Msg("ticker unknown upstream")
				return nil
			}
			if err != nil {
				return fmt.Errorf("price history %s: %w", ticker, err)
			}
			results[i] = points
			found[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(models.PriceColumns, len(distinct))
	for i, ticker := range distinct {
		if found[i] {
			out[ticker] = results[i]
		}
	}
	return out, nil
}
