// Package sanitize turns raw upstream datasets into stable JSON shapes.
//
// Two policies live here and they intentionally differ:
//   - SanitizeTable drops every row holding a missing value.
//   - AssemblePriceSeries never drops a date; missing closes become null.
package sanitize

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/guttosm/quotegate/internal/domain/models"
)

// DateLayout is the calendar-date format used for every date the gateway emits.
const DateLayout = "2006-01-02"

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is a sanitized table row. Fields keep the table's column order,
// with the materialized index (if any) first.
type Record []Field

// MarshalJSON encodes the record as a JSON object preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// SanitizeTable converts t into records that hold only present, finite values.
//
// Steps:
//  1. "NaN" / "nan" strings, NaN and ±Inf floats, and nil are treated as missing.
//  2. Any row with a missing value in any column is dropped whole.
//  3. When t has a labeled index it becomes the first field of each record.
//  4. Surviving rows keep their original order.
//
// An empty or fully-dropped table yields an empty, non-nil slice. Callers that
// need to tell "no dataset" apart must check t.Empty() first.
func SanitizeTable(t *models.Table) []Record {
	out := make([]Record, 0)
	if t.Empty() {
		return out
	}

	for _, row := range t.Rows {
		rec, ok := sanitizeRow(t, row)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func sanitizeRow(t *models.Table, row models.Row) (Record, bool) {
	width := len(t.Columns)
	if t.IndexName != "" {
		width++
	}
	rec := make(Record, 0, width)
	if t.IndexName != "" {
		rec = append(rec, Field{Name: t.IndexName, Value: indexValue(row.Index)})
	}
	for _, col := range t.Columns {
		v, ok := row.Values[col]
		if !ok || isMissing(v) {
			return nil, false
		}
		rec = append(rec, Field{Name: col, Value: v})
	}
	return rec, true
}

// isMissing reports whether v is one of the missing-value markers.
func isMissing(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == "NaN" || x == "nan"
	case float64:
		return math.IsNaN(x) || math.IsInf(x, 0)
	case float32:
		f := float64(x)
		return math.IsNaN(f) || math.IsInf(f, 0)
	case *float64:
		return x == nil || math.IsNaN(*x) || math.IsInf(*x, 0)
	}
	return false
}

func indexValue(v any) any {
	if tm, ok := v.(time.Time); ok {
		return tm.UTC().Format(DateLayout)
	}
	return v
}
