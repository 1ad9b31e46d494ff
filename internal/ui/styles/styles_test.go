// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestSeriesColorWraps(t *testing.T) {
	if SeriesColor(0) != ChartPalette[0] {
		t.Error("index 0 should be first palette color")
	}
	if SeriesColor(len(ChartPalette)) != ChartPalette[0] {
		t.Error("palette should wrap")
	}
	if SeriesColor(-3) != SeriesColor(3) {
		t.Error("negative index should not panic or differ")
	}
}

func TestGaugeColor(t *testing.T) {
	tests := []struct {
		percent float64
		want    string
	}{
		{0, Rose.Dark},
		{49.9, Rose.Dark},
		{50, Amber.Dark},
		{79.9, Amber.Dark},
		{80, Emerald.Dark},
		{100, Emerald.Dark},
	}
	for _, tt := range tests {
		if got := GaugeColor(tt.percent); got.Dark != tt.want {
			t.Errorf("GaugeColor(%v).Dark = %q, want %q", tt.percent, got.Dark, tt.want)
		}
	}
}

func TestGaugeColorAtCustomBounds(t *testing.T) {
	tests := []struct {
		percent, low, high float64
		want               string
	}{
		{60, 70, 90, Rose.Dark},
		{75, 70, 90, Amber.Dark},
		{90, 70, 90, Emerald.Dark},
		{40, 30, 50, Amber.Dark},
	}
	for _, tt := range tests {
		if got := GaugeColorAt(tt.percent, tt.low, tt.high); got.Dark != tt.want {
			t.Errorf("GaugeColorAt(%v, %v, %v).Dark = %q, want %q",
				tt.percent, tt.low, tt.high, got.Dark, tt.want)
		}
	}
}

func TestRenderHelpersIncludeIndicators(t *testing.T) {
	if !strings.Contains(RenderSuccess("done"), StatusIndicators.Success) {
		t.Error("success indicator missing")
	}
	if !strings.Contains(RenderError("bad"), StatusIndicators.Error) {
		t.Error("error indicator missing")
	}
	if !strings.Contains(RenderWarning("careful"), StatusIndicators.Warning) {
		t.Error("warning indicator missing")
	}
}
