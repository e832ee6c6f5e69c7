package upstream

import (
	"math"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// flatten replaces the provider's {"raw": x, "fmt": "..."} wrappers with x.
// An empty object means "no value" and becomes nil.
func flatten(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if raw, ok := x["raw"]; ok {
			return raw
		}
		if len(x) == 0 {
			return nil
		}
		out := make(map[string]any, len(x))
		for k, inner := range x {
			out[k] = flatten(inner)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, inner := range x {
			out[i] = flatten(inner)
		}
		return out
	default:
		return v
	}
}

// isScalar reports whether v can be a table cell.
func isScalar(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return false
	}
	return true
}

// dateOf reads a date-valued field: the "fmt" form when it is a plain date,
// otherwise the "raw" epoch seconds. Returns "" when absent.
func dateOf(v any) string {
	switch x := v.(type) {
	case map[string]any:
		if f, ok := x["fmt"].(string); ok {
			if _, err := time.Parse(dateLayout, f); err == nil {
				return f
			}
		}
		return dateOf(x["raw"])
	case float64:
		return time.Unix(int64(x), 0).UTC().Format(dateLayout)
	case string:
		if _, err := time.Parse(dateLayout, x); err == nil {
			return x
		}
	}
	return ""
}

// objects returns the elements of list that are JSON objects.
func objects(list any) []map[string]any {
	items, _ := list.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// sortedKeys returns m's keys in lexical order, skipping the listed ones.
func sortedKeys(m map[string]any, skip ...string) []string {
	keys := make([]string, 0, len(m))
outer:
	for k := range m {
		for _, s := range skip {
			if k == s {
				continue outer
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// closeOrNaN maps a nullable close to the NaN-for-missing convention of models.PricePoint.
func closeOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// exchangeDate converts an epoch timestamp to the exchange-local calendar date (UTC midnight).
func exchangeDate(ts int64, gmtOffset int) time.Time {
	y, m, d := time.Unix(ts+int64(gmtOffset), 0).UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
