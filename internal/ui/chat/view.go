// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/ui/components"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the complete chat screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting…"
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
	}
	if m.freshConversation() && m.state == StateIdle {
		sections = append(sections, components.RenderSuggestions(m.width))
	}
	sections = append(sections, m.renderInput(), m.renderStatusBar())
	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// chromeHeight counts the rows everything but the viewport needs.
func chromeHeight(m Model) int {
	h := 2 + 3 + 1 // header + input box + status bar
	if m.freshConversation() && m.state == StateIdle {
		h += strings.Count(components.RenderSuggestions(m.width), "\n") + 1
	}
	if m.showHelp {
		h += strings.Count(m.renderHelp(), "\n") + 1
	}
	return h
}

func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.Cyan).
		Render("IGNIS Furnace Analytics")
	subtitle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("  metallurgy Q&A")

	line := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(strings.Repeat("─", maxIntChat(m.width, 1)))
	return title + subtitle + "\n" + line
}

func (m Model) renderInput() string {
	borderColor := styles.Overlay
	if m.state == StateSending {
		borderColor = styles.Purple
	} else if m.editingID != "" {
		borderColor = styles.Amber
	}

	inner := m.input.View()
	if m.state == StateSending {
		inner = m.spinner.View() + " thinking…"
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(maxIntChat(m.width-2, 20)).
		Render(inner)
}

func (m Model) renderStatusBar() string {
	bar := components.StatusBar{
		Width:      m.width,
		ModeLabel:  m.mode.Label(),
		Healthy:    m.healthy,
		HealthKnow: m.healthKnown,
		StatusMsg:  m.statusMsg,
		Sending:    m.state == StateSending,
	}
	return bar.View()
}

func (m Model) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	var parts []string
	for _, b := range m.keys.HelpEntries() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(strings.Join(parts, "  ·  "))
}

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// refreshViewport rebuilds the transcript content.
func (m *Model) refreshViewport(gotoBottom bool) {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.conversation.Messages {
		bubble := components.NewMessageBubble(msg)
		bubble.SetWidth(m.viewport.Width)
		bubble.ShowTimestamp = m.cfg.UI.ShowTimestamps
		bubble.ShowSQL = m.cfg.UI.ShowSQL
		bubble.RowLimit = m.cfg.UI.RowLimit
		bubble.ResolveAsset = m.client.ResolveAssetURL
		b.WriteString(bubble.View())
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

func maxIntChat(a, b int) int {
	if a > b {
		return a
	}
	return b
}
