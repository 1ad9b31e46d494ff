// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"encoding/json"
	"testing"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		column string
		want   string
	}{
		{"nil", nil, "oee", "-"},
		{"non-numeric string", "Furnace 1", "furnace", "Furnace 1"},
		{"strength unit", json.Number("1450"), "tensile_strength", "1,450 MPa"},
		{"modulus unit", 210000.0, "elastic_modulus", "210,000 MPa"},
		{"strength from string", "1450", "yield_strength", "1,450 MPa"},
		{"density unit", json.Number("7850"), "density", "7,850 kg/m³"},
		{"hardness grouped no unit", json.Number("2100"), "hardness", "2,100"},
		{"bhn exact", json.Number("2100"), "bhn", "2,100"},
		{"hv exact", 185.0, "hv", "185"},
		{"hv substring does not match", 1234.5, "hvac_zone", "1,234.5"},
		{"uppercase column does not match", 1450.0, "Tensile_Strength", "1,450"},
		{"uppercase exact does not match", 185.0, "HV", "185"},
		{"ratio three decimals", json.Number("0.5"), "poisson_ratio", "0.500"},
		{"ratio rounds", 0.33333, "strain_ratio", "0.333"},
		{"default numeric grouped", json.Number("1234567"), "downtime_minutes", "1,234,567"},
		{"default fraction capped", 1234.5678, "oee", "1,234.568"},
		{"numeric string untouched by default", "92.1", "yield_pct", "92.1"},
		{"numeric prefix string", "1500 rpm", "speed", "1500 rpm"},
		{"numeric prefix with unit column", "1500 rpm", "proof_strength", "1,500 MPa"},
		{"bool", true, "active", "true"},
		{"strength precedence over ratio", json.Number("900"), "strength_ratio", "900 MPa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(tt.value, tt.column); got != tt.want {
				t.Errorf("Value(%v, %q) = %q, want %q", tt.value, tt.column, got, tt.want)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1234, "1,234"},
		{1234.5, "1,234.5"},
		{-9876543.21, "-9,876,543.21"},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercent(t *testing.T) {
	// Scores come in already scaled to 0..100.
	if got := Percent(87); got != "87%" {
		t.Errorf("Percent(87) = %q", got)
	}
	if got := Percent(91.6); got != "92%" {
		t.Errorf("Percent(91.6) = %q", got)
	}
	if got := Percent(0.5); got != "1%" {
		t.Errorf("Percent(0.5) = %q", got)
	}
}
