// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// RECORD TYPE
// =============================================================================

// Record is a single result row. It remembers the order in which its keys
// appeared on the wire, so tables and charts can lay columns out the way the
// server sent them instead of in Go map iteration order.
type Record struct {
	cols []string
	vals map[string]any
}

// NewRecord builds a record from ordered column/value pairs. Columns and
// values must have equal length; extra entries on either side are dropped.
func NewRecord(cols []string, vals []any) Record {
	n := len(cols)
	if len(vals) < n {
		n = len(vals)
	}
	r := Record{
		cols: make([]string, 0, n),
		vals: make(map[string]any, n),
	}
	for i := 0; i < n; i++ {
		r.Set(cols[i], vals[i])
	}
	return r
}

// Columns returns the column names in wire order.
func (r Record) Columns() []string {
	return r.cols
}

// Value returns the value for a column and whether it was present.
func (r Record) Value(col string) (any, bool) {
	v, ok := r.vals[col]
	return v, ok
}

// Get returns the value for a column, or nil if absent.
func (r Record) Get(col string) any {
	return r.vals[col]
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.cols)
}

// Set stores a value, appending the column if it is new.
func (r *Record) Set(col string, v any) {
	if r.vals == nil {
		r.vals = make(map[string]any)
	}
	if _, ok := r.vals[col]; !ok {
		r.cols = append(r.cols, col)
	}
	r.vals[col] = v
}

// Float returns the column value coerced to float64, and whether the
// coercion succeeded. Strings are parsed; nil and non-numeric text fail.
func (r Record) Float(col string) (float64, bool) {
	v, ok := r.vals[col]
	if !ok {
		return 0, false
	}
	return ToFloat(v)
}

// ToFloat coerces a decoded JSON value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(n, "%g", &f); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// UnmarshalJSON decodes a JSON object while preserving key order.
// encoding/json's default map decoding discards order, so this walks the
// token stream instead. Numbers are kept as json.Number to preserve the
// distinction between numeric and string values for formatting.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	r.cols = r.cols[:0]
	r.vals = make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record: expected string key, got %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		r.Set(key, v)
	}
	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON re-encodes the record with its original key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(r.vals[col])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
