package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/guttosm/quotegate/internal/domain/models"
)

// ErrUnknownKind is returned by Table for a dataset kind the client cannot serve.
var ErrUnknownKind = errors.New("upstream: unknown dataset kind")

// infoModules are merged into the flat object served by Lookup.
var infoModules = []string{
	"assetProfile",
	"summaryProfile",
	"summaryDetail",
	"quoteType",
	"defaultKeyStatistics",
	"financialData",
	"price",
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]any `json:"result"`
		Error  *errorBody       `json:"error"`
	} `json:"quoteSummary"`
}

// summarySource describes a dataset served from one quoteSummary module.
type summarySource struct {
	module string
	build  func(module map[string]any) *models.Table
}

var summarySources = map[models.Kind]summarySource{
	models.KindGrowthEstimates:      {"earningsTrend", growthEstimatesTable},
	models.KindEarnings:             {"earnings", earningsTable},
	models.KindFinancials:           {"incomeStatementHistory", statementTable("incomeStatementHistory")},
	models.KindIncomeStatement:      {"incomeStatementHistory", statementTable("incomeStatementHistory")},
	models.KindBalanceSheet:         {"balanceSheetHistory", statementTable("balanceSheetStatements")},
	models.KindCashflow:             {"cashflowStatementHistory", statementTable("cashflowStatements")},
	models.KindInstitutionalHolders: {"institutionOwnership", holdersTable},
	models.KindSustainability:       {"esgScores", sustainabilityTable},
	models.KindRecommendations:      {"recommendationTrend", recommendationsTable},
}

// quoteSummary fetches the given modules for ticker. Modules the provider
// omitted are absent from the returned map.
func (c *Client) quoteSummary(ctx context.Context, ticker string, modules ...string) (map[string]any, error) {
	q := url.Values{}
	q.Set("modules", strings.Join(modules, ","))

	var body quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), q, &body); err != nil {
		return nil, err
	}
	if body.QuoteSummary.Error != nil {
		return nil, body.QuoteSummary.Error.asAPIError(http.StatusBadGateway)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "empty quoteSummary result for " + ticker}
	}
	return body.QuoteSummary.Result[0], nil
}

// Lookup returns the merged company info object for ticker.
func (c *Client) Lookup(ctx context.Context, ticker string) (map[string]any, error) {
	res, err := c.quoteSummary(ctx, ticker, infoModules...)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", ticker, err)
	}

	info := make(map[string]any)
	for _, module := range infoModules {
		fields, ok := res[module].(map[string]any)
		if !ok {
			continue
		}
		for k, v := range fields {
			if k == "maxAge" {
				continue
			}
			info[k] = flatten(v)
		}
	}
	return info, nil
}

// Table returns the raw dataset of the given kind for ticker.
// A ticker the provider does not know yields an error matching ErrNotFound.
func (c *Client) Table(ctx context.Context, ticker string, kind models.Kind) (*models.Table, error) {
	if src, ok := summarySources[kind]; ok {
		res, err := c.quoteSummary(ctx, ticker, src.module)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, ticker, err)
		}
		module, _ := res[src.module].(map[string]any)
		return src.build(module), nil
	}
	if build, ok := eventSources[kind]; ok {
		events, err := c.chartEvents(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, ticker, err)
		}
		return build(events), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func growthEstimatesTable(module map[string]any) *models.Table {
	t := models.NewTable("period", "growth")
	for _, tr := range objects(module["trend"]) {
		t.AddRow(tr["period"], map[string]any{"growth": flatten(tr["growth"])})
	}
	return t
}

func earningsTable(module map[string]any) *models.Table {
	t := models.NewTable("year", "revenue", "earnings")
	chart, _ := module["financialsChart"].(map[string]any)
	for _, y := range objects(chart["yearly"]) {
		t.AddRow(y["date"], map[string]any{
			"revenue":  flatten(y["revenue"]),
			"earnings": flatten(y["earnings"]),
		})
	}
	return t
}

// statementTable lays a statement history out as line items (rows) by
// period end date (columns), most recent period first.
func statementTable(listKey string) func(map[string]any) *models.Table {
	return func(module map[string]any) *models.Table {
		statements := objects(module[listKey])
		t := models.NewTable("line_item")

		lineItems := make(map[string]any)
		for i, st := range statements {
			col := dateOf(st["endDate"])
			if col == "" {
				col = fmt.Sprintf("period_%d", i)
			}
			t.Columns = append(t.Columns, col)
			for k := range st {
				lineItems[k] = nil
			}
		}
		for _, item := range sortedKeys(lineItems, "maxAge", "endDate") {
			values := make(map[string]any, len(statements))
			for i, st := range statements {
				if v, ok := st[item]; ok {
					values[t.Columns[i]] = flatten(v)
				}
			}
			t.AddRow(item, values)
		}
		return t
	}
}

func holdersTable(module map[string]any) *models.Table {
	t := models.NewTable("", "holder", "shares", "date_reported", "pct_held", "value")
	for i, h := range objects(module["ownershipList"]) {
		var reported any
		if d := dateOf(h["reportDate"]); d != "" {
			reported = d
		}
		t.AddRow(i, map[string]any{
			"holder":        h["organization"],
			"shares":        flatten(h["position"]),
			"date_reported": reported,
			"pct_held":      flatten(h["pctHeld"]),
			"value":         flatten(h["value"]),
		})
	}
	return t
}

func sustainabilityTable(module map[string]any) *models.Table {
	t := models.NewTable("metric", "value")
	for _, k := range sortedKeys(module, "maxAge") {
		v := flatten(module[k])
		if !isScalar(v) {
			continue
		}
		t.AddRow(k, map[string]any{"value": v})
	}
	return t
}

func recommendationsTable(module map[string]any) *models.Table {
	t := models.NewTable("", "period", "strong_buy", "buy", "hold", "sell", "strong_sell")
	for i, tr := range objects(module["trend"]) {
		t.AddRow(i, map[string]any{
			"period":      tr["period"],
			"strong_buy":  flatten(tr["strongBuy"]),
			"buy":         flatten(tr["buy"]),
			"hold":        flatten(tr["hold"]),
			"sell":        flatten(tr["sell"]),
			"strong_sell": flatten(tr["strongSell"]),
		})
	}
	return t
}
