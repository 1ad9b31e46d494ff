// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/format"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

const maxGridColumns = 4

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.Overlay).
	Padding(0, 1)

// =============================================================================
// GAUGE
// =============================================================================

// renderGauge draws a progress bar with threshold coloring. A missing or
// non-numeric value reads as zero; a missing or zero max reads as 100.
// The fill percentage is always clamped to 0..100.
func (r *Renderer) renderGauge(spec *model.ChartSpec) string {
	value, maxVal := 0.0, 100.0
	if spec.Datum != nil {
		if v, ok := spec.Datum.Float("value"); ok {
			value = v
		}
		if m, ok := spec.Datum.Float("max"); ok && m > 0 {
			maxVal = m
		}
	}
	percent := value / maxVal * 100
	percent = math.Min(math.Max(percent, 0), 100)

	low, high := gaugeBounds(spec.Options.Thresholds)
	color := styles.GaugeColorAt(percent, low, high)
	barWidth := r.width - 4
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 10 {
		barWidth = 10
	}

	var b strings.Builder
	if spec.Title != "" {
		b.WriteString(titleStyle.Render(spec.Title) + "\n")
	}
	b.WriteString(progressBar(barWidth, percent, color))
	b.WriteString(" " + lipgloss.NewStyle().Foreground(color).Bold(true).
		Render(format.Number(math.Round(percent))+"%"))
	b.WriteByte('\n')
	b.WriteString(legendStyle.Render(format.Number(value) + " / " + format.Number(maxVal)))
	b.WriteByte('\n')
	return cardStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// gaugeBounds resolves the gauge color bands: below low is red, below
// the green floor is amber. The floor is named "medium" on the wire but
// some servers call it "high"; either overrides the default.
func gaugeBounds(t model.Thresholds) (low, high float64) {
	low, high = styles.GaugeLowThreshold, styles.GaugeHighThreshold
	if t.Low != nil {
		low = *t.Low
	}
	if t.Medium != nil {
		high = *t.Medium
	} else if t.High != nil {
		high = *t.High
	}
	return low, high
}

// progressBar renders a filled/empty bar at the given percentage.
func progressBar(width int, percent float64, color lipgloss.AdaptiveColor) string {
	filled := int(math.Round(float64(width) * percent / 100))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(styles.OverlayDim).Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// =============================================================================
// KPI CARD
// =============================================================================

// renderKPICard draws a single headline number with an optional trend
// arrow: up for positive, down for negative, flat otherwise. Title,
// unit, and trend come from the chart options; the data object fills
// whatever the options leave blank.
func (r *Renderer) renderKPICard(spec *model.ChartSpec) string {
	label := spec.Title
	unit := spec.Options.Unit
	trend := spec.Options.Trend
	var value any
	subtitle := ""

	if spec.Datum != nil {
		value = spec.Datum.Get("value")
		if l := cellString(spec.Datum.Get("label")); label == "" && l != "-" && l != "" {
			label = l
		}
		if u, ok := spec.Datum.Value("unit"); ok && unit == "" {
			unit = cellString(u)
		}
		if t, ok := spec.Datum.Float("trend"); ok && trend == nil {
			trend = &t
		}
		if s := cellString(spec.Datum.Get("subtitle")); s != "-" && s != "" {
			subtitle = s
		}
	}

	body := kpiBody(label, value, unit, trend)
	if subtitle != "" {
		body += "\n" + legendStyle.Render(subtitle)
	}
	return cardStyle.Render(body) + "\n"
}

func kpiBody(label string, value any, unit string, trend *float64) string {
	var b strings.Builder
	if label != "" {
		b.WriteString(legendStyle.Render(label) + "\n")
	}

	// The unit is explicit here, so skip column-name unit inference.
	display := cellString(value)
	if f, ok := model.ToFloat(value); ok {
		display = format.Number(f)
	}
	if unit != "" {
		display += " " + unit
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(styles.TextPrimary).Render(display))

	if trend != nil {
		arrow, color := "→", styles.TextMuted
		switch {
		case *trend > 0:
			arrow, color = "↑", styles.Emerald
		case *trend < 0:
			arrow, color = "↓", styles.Rose
		}
		b.WriteString("  " + lipgloss.NewStyle().Foreground(color).Render(
			arrow+" "+format.Number(math.Abs(*trend))+"%"))
	}
	return b.String()
}

// =============================================================================
// METRIC GRID
// =============================================================================

// renderMetricGrid lays KPI cards out in columns. The column count comes
// from options, defaulting to the metric count capped at four.
func (r *Renderer) renderMetricGrid(rows []model.Record, opts model.ChartOptions) string {
	if len(rows) == 0 {
		return ""
	}

	columns := opts.Columns
	if columns <= 0 {
		columns = len(rows)
		if columns > maxGridColumns {
			columns = maxGridColumns
		}
	}

	cardWidth := r.width/columns - 2
	if cardWidth < 12 {
		cardWidth = 12
	}
	cell := cardStyle.Width(cardWidth)

	cards := make([]string, 0, len(rows))
	for _, row := range rows {
		label := cellString(row.Get("label"))
		if label == "-" {
			label = ""
		}
		unit := ""
		if u, ok := row.Value("unit"); ok {
			unit = cellString(u)
		}
		var trend *float64
		if t, ok := row.Float("trend"); ok {
			trend = &t
		}
		cards = append(cards, cell.Render(kpiBody(label, row.Get("value"), unit, trend)))
	}

	var b strings.Builder
	for i := 0; i < len(cards); i += columns {
		end := i + columns
		if end > len(cards) {
			end = len(cards)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
		b.WriteByte('\n')
	}
	return b.String()
}
