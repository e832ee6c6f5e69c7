package service

import (
	"strings"

	"github.com/guttosm/quotegate/internal/domain/models"
)

var kinds = []models.Kind{
	models.KindGrowthEstimates,
	models.KindEarnings,
	models.KindFinancials,
	models.KindIncomeStatement,
	models.KindBalanceSheet,
	models.KindCashflow,
	models.KindDividends,
	models.KindSplits,
	models.KindInstitutionalHolders,
	models.KindSustainability,
	models.KindRecommendations,
}

// Kinds lists every dataset served under /stock/:ticker/<kind>, in route order.
func Kinds() []models.Kind {
	out := make([]models.Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind resolves a dataset name.
func ParseKind(name string) (models.Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range kinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}

// Label is the human name of a dataset: "balance_sheet" -> "balance sheet".
func Label(kind models.Kind) string {
	return strings.ReplaceAll(string(kind), "_", " ")
}
