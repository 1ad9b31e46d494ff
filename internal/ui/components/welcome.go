// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// Suggestions are the starter questions offered before the first query.
// Number keys 1-8 submit them directly.
var Suggestions = []string{
	"Show OEE by furnace for last week",
	"What is the total downtime for Furnace 1?",
	"Compare yield percentage across all furnaces",
	"Show MTBF and MTTR trends",
	"What is the energy consumption by furnace?",
	"How to configure furnace parameters?",
	"What is EHS?",
	"Show production efficiency for January",
}

// RenderSuggestions renders the starter question chips.
func RenderSuggestions(width int) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)
	chipStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 1)
	numStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Try asking:") + "\n")

	// Two chips per line on wide terminals, one otherwise.
	perLine := 1
	if width >= 90 {
		perLine = 2
	}
	var line []string
	for i, s := range Suggestions {
		chip := chipStyle.Render(numStyle.Render(strconv.Itoa(i+1)+" ") + s)
		line = append(line, chip)
		if len(line) == perLine || i == len(Suggestions)-1 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, line...) + "\n")
			line = nil
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
