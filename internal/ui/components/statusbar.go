// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar is the bottom chrome line: query mode, backend health, and a
// transient status message.
type StatusBar struct {
	Width      int
	ModeLabel  string
	Healthy    bool
	HealthKnow bool
	StatusMsg  string
	Sending    bool
}

// View renders the status bar.
func (s StatusBar) View() string {
	barStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary)

	mode := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.Cyan).
		Bold(true).
		Render(" mode:" + s.ModeLabel + " ")

	health := ""
	switch {
	case !s.HealthKnow:
		health = barStyle.Render(styles.StatusIndicators.Pending + " backend ")
	case s.Healthy:
		health = lipgloss.NewStyle().
			Background(styles.SurfaceDim).
			Foreground(styles.Emerald).
			Render(styles.StatusIndicators.Active + " backend ")
	default:
		health = lipgloss.NewStyle().
			Background(styles.SurfaceDim).
			Foreground(styles.Rose).
			Render(styles.StatusIndicators.Error + " backend ")
	}

	left := mode + health
	if s.Sending {
		left += barStyle.Render("querying… ")
	}

	right := ""
	if s.StatusMsg != "" {
		right = barStyle.Render(" " + s.StatusMsg + " ")
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		if s.StatusMsg != "" && s.Width > lipgloss.Width(left)+8 {
			trimmed := runewidth.Truncate(s.StatusMsg, s.Width-lipgloss.Width(left)-4, "…")
			right = barStyle.Render(" " + trimmed + " ")
			gap = s.Width - lipgloss.Width(left) - lipgloss.Width(right)
		}
		if gap < 1 {
			gap = 1
		}
	}
	return left + barStyle.Render(strings.Repeat(" ", gap)) + right
}
