package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/guttosm/quotegate/internal/service"
)

const (
	datasetInfo        = "info"
	datasetClosePrices = "close_prices"
)

// runExport writes one dataset as indented JSON to w, using the same service
// and error semantics as the HTTP gateway.
func runExport(ctx context.Context, svc service.StockService, w io.Writer, ticker, dataset string) error {
	var (
		out any
		err error
	)

	switch name := strings.ToLower(strings.TrimSpace(dataset)); name {
	case datasetInfo:
		out, err = svc.Info(ctx, ticker)
	case datasetClosePrices:
		series, perr := svc.ClosePrices(ctx, strings.Split(ticker, ","))
		if perr != nil {
			return perr
		}
		out = map[string]any{"dates": series.Dates, "prices": series.Prices}
	default:
		kind, ok := service.ParseKind(name)
		if !ok {
			return fmt.Errorf("unknown dataset %q", dataset)
		}
		out, err = svc.Dataset(ctx, ticker, kind)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
