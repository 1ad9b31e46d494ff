// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ignis-analytics/metalquery-tui/internal/format"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// DefaultRowLimit caps how many rows a table shows before summarizing.
const DefaultRowLimit = 20

// maxColWidth caps a single column so one long cell cannot eat the row.
const maxColWidth = 32

// =============================================================================
// RESULT TABLE
// =============================================================================

// ResultTable renders query result rows as an aligned text table. Columns
// come from the first record in its own key order; header names swap
// underscores for spaces.
type ResultTable struct {
	Rows     []model.Record
	RowCount int
	RowLimit int
	MaxWidth int
}

// NewResultTable creates a table over the given rows. rowCount is the
// server-reported total, which can exceed len(rows).
func NewResultTable(rows []model.Record, rowCount int) ResultTable {
	if rowCount < len(rows) {
		rowCount = len(rows)
	}
	return ResultTable{
		Rows:     rows,
		RowCount: rowCount,
		RowLimit: DefaultRowLimit,
		MaxWidth: 80,
	}
}

// Render renders the table with its caption, or "" for no rows.
func (t ResultTable) Render() string {
	if len(t.Rows) == 0 {
		return ""
	}
	cols := t.Rows[0].Columns()
	if len(cols) == 0 {
		return ""
	}

	limit := t.RowLimit
	if limit <= 0 {
		limit = DefaultRowLimit
	}
	shown := t.Rows
	if len(shown) > limit {
		shown = shown[:limit]
	}

	// Column widths from headers and visible cells.
	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, col := range cols {
		headers[i] = strings.ReplaceAll(col, "_", " ")
		widths[i] = runewidth.StringWidth(headers[i])
	}
	cells := make([][]string, len(shown))
	for ri, row := range shown {
		cells[ri] = make([]string, len(cols))
		for ci, col := range cols {
			v, _ := row.Value(col)
			s := format.Value(v, col)
			if runewidth.StringWidth(s) > maxColWidth {
				s = runewidth.Truncate(s, maxColWidth, "…")
			}
			cells[ri][ci] = s
			if w := runewidth.StringWidth(s); w > widths[ci] {
				widths[ci] = w
			}
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Cyan)
	cellStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	mutedStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var b strings.Builder
	caption := "Data Results (" + format.Number(float64(t.RowCount)) + " rows)"
	if t.RowCount == 1 {
		caption = "Data Results (1 row)"
	}
	b.WriteString(headerStyle.Render(caption) + "\n")

	var head strings.Builder
	for i, h := range headers {
		if i > 0 {
			head.WriteString("  ")
		}
		head.WriteString(pad(h, widths[i]))
	}
	b.WriteString(headerStyle.Render(head.String()) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", minInt(lineWidth(widths), t.MaxWidth))) + "\n")

	for _, row := range cells {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(pad(cell, widths[i]))
		}
		b.WriteString(cellStyle.Render(line.String()) + "\n")
	}

	if rest := len(t.Rows) - len(shown); rest > 0 {
		b.WriteString(mutedStyle.Render("... and "+format.Number(float64(rest))+" more rows") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func pad(s string, w int) string {
	if d := w - runewidth.StringWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func lineWidth(widths []int) int {
	total := 0
	for i, w := range widths {
		if i > 0 {
			total += 2
		}
		total += w
	}
	return total
}
