// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format renders result-cell values for display. Units are chosen
// from the column name, so a "tensile_strength" column shows MPa without
// the server having to annotate anything.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer renders grouped thousands ("12,345.7"). English grouping matches
// what the reporting stack produces everywhere else.
var printer = message.NewPrinter(language.AmericanEnglish)

// Value formats a single cell for display, picking a unit suffix from the
// column name. Column matching is an exact-case substring match against
// the lowercase patterns, so "Strength" earns no unit. Precedence, first
// match wins:
//
//	nil                     -> "-"
//	non-numeric             -> unchanged
//	*strength*, *modulus*   -> grouped + " MPa"
//	*density*               -> grouped + " kg/m³"
//	*hardness*, bhn, hv     -> grouped, no unit
//	*ratio*                 -> fixed 3 decimals
//	numeric-typed           -> grouped
//	numeric string          -> unchanged
func Value(v any, column string) string {
	if v == nil {
		return "-"
	}

	num, numeric := parseNumeric(v)
	if !numeric {
		return toString(v)
	}

	switch {
	case strings.Contains(column, "strength") || strings.Contains(column, "modulus"):
		return Number(num) + " MPa"
	case strings.Contains(column, "density"):
		return Number(num) + " kg/m³"
	case strings.Contains(column, "hardness") || column == "bhn" || column == "hv":
		return Number(num)
	case strings.Contains(column, "ratio"):
		return strconv.FormatFloat(num, 'f', 3, 64)
	}

	// Numeric strings pass through untouched in the default case; only
	// genuinely numeric values get regrouped.
	if isNumberType(v) {
		return Number(num)
	}
	return toString(v)
}

// Number renders a float with grouped thousands and at most three fraction
// digits.
func Number(f float64) string {
	return printer.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(3)))
}

// Percent renders a 0..100 score as a whole percentage ("87%"). Scores
// arrive already scaled; the value is rounded, never multiplied.
func Percent(f float64) string {
	return strconv.Itoa(int(f+0.5)) + "%"
}

// parseNumeric coerces a cell to float64. String cells are parsed from
// their leading numeric prefix, so "1500 rpm" still sorts into the numeric
// branches the way the reporting stack treats it.
func parseNumeric(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return parseFloatPrefix(n)
	default:
		return 0, false
	}
}

// isNumberType reports whether the value is numeric-typed (as opposed to a
// numeric string).
func isNumberType(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32, int, int64:
		return true
	}
	return false
}

// parseFloatPrefix parses the longest leading float from s.
func parseFloatPrefix(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
			end = i + 1
		default:
			goto done
		}
	}
done:
	if !seenDigit {
		return 0, false
	}
	for end > 0 {
		if f, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return f, true
		}
		end--
	}
	return 0, false
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
