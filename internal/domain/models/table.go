package models

// Kind names one per-ticker tabular dataset the gateway republishes.
type Kind string

const (
	KindGrowthEstimates      Kind = "growth_estimates"
	KindEarnings             Kind = "earnings"
	KindFinancials           Kind = "financials"
	KindIncomeStatement      Kind = "income_stmt"
	KindBalanceSheet         Kind = "balance_sheet"
	KindCashflow             Kind = "cashflow"
	KindDividends            Kind = "dividends"
	KindSplits               Kind = "splits"
	KindInstitutionalHolders Kind = "institutional_holders"
	KindSustainability       Kind = "sustainability"
	KindRecommendations      Kind = "recommendations"
)

// Table is a tabular record set as returned by the upstream provider.
//
// Fields:
//   - IndexName: name of the labeled row index (e.g. "date", "line_item");
//     empty when rows are only positionally indexed.
//   - Columns: data column names, in presentation order.
//   - Rows: data rows, in upstream order.
//
// Values are whatever the upstream decoded (float64, string, bool, nil, time.Time).
// Missing upstream values are stored as nil, never as a zero value.
type Table struct {
	IndexName string
	Columns   []string
	Rows      []Row
}

// Row is one table row: an optional index label plus a value per column.
// A column absent from Values is treated as missing.
type Row struct {
	Index  any
	Values map[string]any
}

// NewTable creates an empty Table with the given index name and columns.
func NewTable(indexName string, columns ...string) *Table {
	return &Table{IndexName: indexName, Columns: columns}
}

// AddRow appends one row.
func (t *Table) AddRow(index any, values map[string]any) {
	t.Rows = append(t.Rows, Row{Index: index, Values: values})
}

// Empty reports whether the table is absent or has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}
