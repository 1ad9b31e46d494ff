// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// =============================================================================
// SQL BLOCK
// =============================================================================

// SQLBlock renders the generated SQL under an answer, syntax highlighted.
type SQLBlock struct {
	SQL      string
	MaxWidth int
}

// NewSQLBlock creates an SQL block.
func NewSQLBlock(sql string) SQLBlock {
	return SQLBlock{SQL: sql, MaxWidth: 80}
}

// SetMaxWidth sets the maximum width for the block.
func (b *SQLBlock) SetMaxWidth(width int) {
	b.MaxWidth = width
}

// Render renders the SQL with a header badge and highlighting.
func (b SQLBlock) Render() string {
	sql := strings.TrimSpace(b.SQL)
	if sql == "" {
		return ""
	}

	badge := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Background(styles.OverlayDim).
		Padding(0, 1).
		Bold(true).
		Render("SQL")

	maxWidth := b.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		MaxWidth(maxWidth).
		Render(badge + "\n" + highlightSQL(sql))
}

// highlightSQL applies chroma highlighting, falling back to plain text.
func highlightSQL(sql string) string {
	lexer := lexers.Get("sql")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return sql
	}
	return strings.TrimRight(buf.String(), "\n")
}
