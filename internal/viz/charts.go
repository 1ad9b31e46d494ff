// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ignis-analytics/metalquery-tui/internal/format"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

var (
	axisStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)
	legendStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)
)

// =============================================================================
// LINE / AREA
// =============================================================================

// renderLine plots each series as points on a character grid. Area charts
// additionally shade the region under the first series.
func (r *Renderer) renderLine(rows []model.Record, opts model.ChartOptions, area bool) string {
	labels, all := extractSeries(rows, opts.XAxis.DataKey, lineDefs(opts.Lines))
	if len(all) == 0 {
		return ""
	}

	lo, hi := valueRange(all)
	if hi == lo {
		hi = lo + 1
	}

	axisWidth := len(format.Number(hi))
	if w := len(format.Number(lo)); w > axisWidth {
		axisWidth = w
	}
	plotWidth := r.width - axisWidth - 2
	if plotWidth < 10 {
		plotWidth = 10
	}

	// grid[row][col] holds the series index that owns the cell, -1 empty,
	// -2 area shading.
	grid := make([][]int, plotHeight)
	for i := range grid {
		grid[i] = make([]int, plotWidth)
		for j := range grid[i] {
			grid[i][j] = -1
		}
	}

	n := len(labels)
	colFor := func(i int) int {
		if n == 1 {
			return plotWidth / 2
		}
		return i * (plotWidth - 1) / (n - 1)
	}
	rowFor := func(v float64) int {
		frac := (v - lo) / (hi - lo)
		row := int(math.Round(float64(plotHeight-1) * (1 - frac)))
		if row < 0 {
			row = 0
		}
		if row >= plotHeight {
			row = plotHeight - 1
		}
		return row
	}

	for si := len(all) - 1; si >= 0; si-- {
		s := all[si]
		prevCol, prevRow := -1, -1
		for i, v := range s.vals {
			col, row := colFor(i), rowFor(v)
			grid[row][col] = si
			// Connect consecutive points with a stepped segment.
			if prevCol >= 0 {
				fillSegment(grid, prevCol, prevRow, col, row, si)
			}
			if area && si == 0 {
				for rr := row + 1; rr < plotHeight; rr++ {
					if grid[rr][col] == -1 {
						grid[rr][col] = -2
					}
				}
			}
			prevCol, prevRow = col, row
		}
	}

	var b strings.Builder
	b.WriteString(axisStyle.Render(padLeft(format.Number(hi), axisWidth)+" ┤") + "\n")
	for ri := 0; ri < plotHeight; ri++ {
		b.WriteString(axisStyle.Render(strings.Repeat(" ", axisWidth) + " │"))
		var line strings.Builder
		for ci := 0; ci < plotWidth; ci++ {
			switch owner := grid[ri][ci]; {
			case owner >= 0:
				line.WriteString(lipgloss.NewStyle().Foreground(all[owner].color).Render("●"))
			case owner == -2:
				line.WriteString(lipgloss.NewStyle().Foreground(all[0].color).Render("░"))
			default:
				line.WriteByte(' ')
			}
		}
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	b.WriteString(axisStyle.Render(padLeft(format.Number(lo), axisWidth)+" └"+strings.Repeat("─", plotWidth)) + "\n")
	b.WriteString(axisLabels(labels, axisWidth, plotWidth))
	b.WriteString(legend(all, opts.Legend))
	return b.String()
}

// fillSegment draws a stepped connection between two plotted points.
func fillSegment(grid [][]int, c0, r0, c1, r1, si int) {
	if c1 < c0 {
		c0, c1 = c1, c0
		r0, r1 = r1, r0
	}
	for c := c0 + 1; c < c1; c++ {
		frac := float64(c-c0) / float64(c1-c0)
		row := r0 + int(math.Round(frac*float64(r1-r0)))
		if grid[row][c] == -1 || grid[row][c] == -2 {
			grid[row][c] = si
		}
	}
}

// axisLabels spreads the first and last category labels under the plot.
func axisLabels(labels []string, axisWidth, plotWidth int) string {
	if len(labels) == 0 {
		return ""
	}
	first := truncate(labels[0], plotWidth/2)
	last := ""
	if len(labels) > 1 {
		last = truncate(labels[len(labels)-1], plotWidth/2)
	}
	gap := plotWidth - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		gap = 1
	}
	return axisStyle.Render(strings.Repeat(" ", axisWidth+2)+first+strings.Repeat(" ", gap)+last) + "\n"
}

// legend lists series names in their colors. A single series gets no
// legend unless options force one on.
func legend(all []series, forced bool) string {
	if len(all) < 2 && !forced {
		return ""
	}
	parts := make([]string, 0, len(all))
	for _, s := range all {
		dot := lipgloss.NewStyle().Foreground(s.color).Render("■")
		parts = append(parts, dot+" "+legendStyle.Render(s.name))
	}
	return strings.Join(parts, "  ") + "\n"
}

// =============================================================================
// BAR
// =============================================================================

// renderBar draws horizontal bars, one group per category, one bar per
// series. Horizontal bars survive narrow terminals far better than
// vertical columns.
func (r *Renderer) renderBar(rows []model.Record, opts model.ChartOptions) string {
	labels, all := extractSeries(rows, opts.XAxis.DataKey, barDefs(opts.Bars))
	if len(all) == 0 {
		return ""
	}

	_, hi := valueRange(all)
	if hi <= 0 {
		hi = 1
	}

	labelWidth := 0
	for _, l := range labels {
		if w := runewidth.StringWidth(l); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > r.width/3 {
		labelWidth = r.width / 3
	}

	barSpace := r.width - labelWidth - 2
	if barSpace < 8 {
		barSpace = 8
	}

	var b strings.Builder
	for gi, label := range labels {
		for si, s := range all {
			v := s.vals[gi]
			if v < 0 {
				v = 0
			}
			barLen := int(math.Round(float64(barSpace-12) * v / hi))
			if barLen < 1 && v > 0 {
				barLen = 1
			}
			name := label
			if si > 0 {
				name = ""
			}
			b.WriteString(axisStyle.Render(padRight(truncate(name, labelWidth), labelWidth) + " "))
			b.WriteString(lipgloss.NewStyle().Foreground(s.color).Render(strings.Repeat("█", barLen)))
			b.WriteString(" " + legendStyle.Render(format.Number(s.vals[gi])))
			b.WriteByte('\n')
		}
	}
	b.WriteString(legend(all, opts.Legend))
	return b.String()
}

// =============================================================================
// PIE
// =============================================================================

// renderPie draws a proportional band plus a percentage legend per slice.
func (r *Renderer) renderPie(rows []model.Record, opts model.ChartOptions) string {
	if len(rows) == 0 {
		return ""
	}
	nameKey, valueKey := pieKeys(rows[0], opts)
	if valueKey == "" {
		return ""
	}

	type slice struct {
		name string
		val  float64
	}
	var slices []slice
	total := 0.0
	for _, row := range rows {
		v, ok := row.Float(valueKey)
		if !ok || v < 0 {
			continue
		}
		slices = append(slices, slice{name: cellString(row.Get(nameKey)), val: v})
		total += v
	}
	if total <= 0 {
		return ""
	}

	bandWidth := r.width - 2
	if bandWidth < 10 {
		bandWidth = 10
	}

	var b strings.Builder
	used := 0
	for i, s := range slices {
		w := int(math.Round(float64(bandWidth) * s.val / total))
		if i == len(slices)-1 {
			w = bandWidth - used
		}
		if w < 0 {
			w = 0
		}
		used += w
		b.WriteString(lipgloss.NewStyle().Foreground(styles.SeriesColor(i)).Render(strings.Repeat("█", w)))
	}
	b.WriteByte('\n')

	for i, s := range slices {
		pct := s.val / total * 100
		dot := lipgloss.NewStyle().Foreground(styles.SeriesColor(i)).Render("■")
		b.WriteString(dot + " " + legendStyle.Render(
			s.name+": "+format.Number(math.Round(pct*10)/10)+"%") + "\n")
	}
	return b.String()
}

// pieKeys picks the slice label and value columns: explicit nameKey and
// dataKey options win, otherwise the first field labels the slice and
// the second field carries its value.
func pieKeys(first model.Record, opts model.ChartOptions) (nameKey, valueKey string) {
	cols := first.Columns()
	nameKey = opts.NameKey
	valueKey = opts.DataKey

	if nameKey == "" && len(cols) > 0 {
		nameKey = cols[0]
	}
	if valueKey == "" {
		for _, c := range cols {
			if c != nameKey {
				valueKey = c
				break
			}
		}
	}
	return nameKey, valueKey
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

func padLeft(s string, w int) string {
	if d := w - runewidth.StringWidth(s); d > 0 {
		return strings.Repeat(" ", d) + s
	}
	return s
}

func padRight(s string, w int) string {
	if d := w - runewidth.StringWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func truncate(s string, w int) string {
	if w < 1 {
		return ""
	}
	return runewidth.Truncate(s, w, "…")
}
