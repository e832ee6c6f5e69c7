package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guttosm/quotegate/internal/domain/models"
	"github.com/guttosm/quotegate/internal/logger"
	"github.com/guttosm/quotegate/internal/sanitize"
	"github.com/guttosm/quotegate/internal/upstream"
)

var (
	// ErrNoData is matched by every "dataset unavailable" error.
	ErrNoData = errors.New("no data available")
	// ErrInvalidInput is matched by errors caused by the caller's parameters.
	ErrInvalidInput = errors.New("invalid input")
)

// NoDataError names the dataset that came back empty.
type NoDataError struct {
	Dataset string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("No %s data available", e.Dataset)
}

func (e *NoDataError) Is(target error) bool { return target == ErrNoData }

// DefaultWindowDays is the trailing window used by ClosePrices when none is configured.
const DefaultWindowDays = 365

// DataSource is the upstream market-data provider.
type DataSource interface {
	Lookup(ctx context.Context, ticker string) (map[string]any, error)
	Table(ctx context.Context, ticker string, kind models.Kind) (*models.Table, error)
	PriceHistory(ctx context.Context, tickers []string, start, end time.Time) (models.PriceColumns, error)
}

// StockService republishes provider datasets in sanitized form.
type StockService interface {
	Info(ctx context.Context, ticker string) (map[string]any, error)
	Dataset(ctx context.Context, ticker string, kind models.Kind) ([]sanitize.Record, error)
	ClosePrices(ctx context.Context, tickers []string) (*sanitize.PriceSeries, error)
	ClosePricesRange(ctx context.Context, tickers []string, start, end time.Time) (*sanitize.PriceSeries, error)
}

type stockService struct {
	src        DataSource
	windowDays int
	now        func() time.Time
}

func NewStockService(src DataSource, windowDays int) StockService {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &stockService{src: src, windowDays: windowDays, now: time.Now}
}

// NormalizeTicker trims and upper-cases a ticker symbol. A blank symbol is an ErrInvalidInput.
func NormalizeTicker(raw string) (string, error) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return "", fmt.Errorf("%w: ticker must not be blank", ErrInvalidInput)
	}
	return t, nil
}

// NormalizeTickers applies NormalizeTicker to a non-empty list, keeping order and duplicates.
func NormalizeTickers(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: at least one ticker is required", ErrInvalidInput)
	}
	out := make([]string, len(raw))
	for i, r := range raw {
		t, err := NormalizeTicker(r)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// Info returns the company info object. Provider errors, not-found included, pass through.
func (s *stockService) Info(ctx context.Context, ticker string) (map[string]any, error) {
	ticker, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	return s.src.Lookup(ctx, ticker)
}

// Dataset fetches one tabular dataset and sanitizes it.
// An unknown ticker or an empty table yields a *NoDataError.
func (s *stockService) Dataset(ctx context.Context, ticker string, kind models.Kind) ([]sanitize.Record, error) {
	ticker, err := NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	noData := &NoDataError{Dataset: Label(kind)}

	table, err := s.src.Table(ctx, ticker, kind)
	if errors.Is(err, upstream.ErrNotFound) {
		logger.FromContext(ctx).Info().Err(err).Str("ticker", ticker).Str("dataset", string(kind)).Msg("dataset not found upstream")
		return nil, noData
	}
	if err != nil {
		return nil, err
	}
	if table.Empty() {
		return nil, noData
	}

	records := sanitize.SanitizeTable(table)
	if dropped := len(table.Rows) - len(records); dropped > 0 {
		logger.FromContext(ctx).Debug().Int("dropped_rows", dropped).Str("dataset", string(kind)).Msg("incomplete rows removed")
	}
	return records, nil
}

// ClosePrices returns daily closes over the trailing window ending today (UTC).
func (s *stockService) ClosePrices(ctx context.Context, tickers []string) (*sanitize.PriceSeries, error) {
	y, m, d := s.now().UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -s.windowDays)
	return s.closePrices(ctx, tickers, start, end)
}

// ClosePricesRange returns daily closes for start..end, both dates inclusive.
func (s *stockService) ClosePricesRange(ctx context.Context, tickers []string, start, end time.Time) (*sanitize.PriceSeries, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start must not be after end", ErrInvalidInput)
	}
	return s.closePrices(ctx, tickers, start, end)
}

func (s *stockService) closePrices(ctx context.Context, tickers []string, start, end time.Time) (*sanitize.PriceSeries, error) {
	tickers, err := NormalizeTickers(tickers)
	if err != nil {
		return nil, err
	}

	raw, err := s.src.PriceHistory(ctx, tickers, start, end)
	if err != nil {
		return nil, err
	}

	series := sanitize.AssemblePriceSeries(tickers, raw)
	if series.Empty() {
		return nil, &NoDataError{Dataset: "price"}
	}
	return series, nil
}
