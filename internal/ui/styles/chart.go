// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// ChartPalette is the series color cycle for multi-series charts. Series
// beyond the palette wrap around.
var ChartPalette = []lipgloss.Color{
	lipgloss.Color("#3B82F6"), // blue
	lipgloss.Color("#F97316"), // orange
	lipgloss.Color("#22C55E"), // green
	lipgloss.Color("#A855F7"), // purple
	lipgloss.Color("#F59E0B"), // amber
	lipgloss.Color("#EF4444"), // red
	lipgloss.Color("#06B6D4"), // cyan
	lipgloss.Color("#EC4899"), // pink
}

// SeriesColor returns the palette color for a series index.
func SeriesColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return ChartPalette[i%len(ChartPalette)]
}

// Gauge thresholds: below 50% is critical, below 80% needs attention,
// 80% and up is healthy.
const (
	GaugeLowThreshold  = 50.0
	GaugeHighThreshold = 80.0
)

// GaugeColor maps a 0..100 percentage to its default threshold color.
func GaugeColor(percent float64) lipgloss.AdaptiveColor {
	return GaugeColorAt(percent, GaugeLowThreshold, GaugeHighThreshold)
}

// GaugeColorAt maps a percentage to a color under custom bands: rose
// below low, amber below high, emerald at or above high.
func GaugeColorAt(percent, low, high float64) lipgloss.AdaptiveColor {
	switch {
	case percent < low:
		return Rose
	case percent < high:
		return Amber
	default:
		return Emerald
	}
}
