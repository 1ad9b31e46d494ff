// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/format"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// =============================================================================
// SCORE BADGES
// =============================================================================

// RenderScores renders the confidence and relevance badges for an answer.
// Either score may be absent; both absent renders "".
func RenderScores(confidence, relevance *float64) string {
	var parts []string
	if confidence != nil {
		parts = append(parts, scoreBadge("confidence", *confidence))
	}
	if relevance != nil {
		parts = append(parts, scoreBadge("relevance", *relevance))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}

// scoreBadge colors a 0..100 score: green at or above 80, amber at or
// above 50, rose below.
func scoreBadge(label string, score float64) string {
	color := styles.Rose
	switch {
	case score >= 80:
		color = styles.Emerald
	case score >= 50:
		color = styles.Amber
	}
	return lipgloss.NewStyle().Foreground(styles.TextMuted).Render(label+" ") +
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(format.Percent(score))
}
