// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
	"github.com/ignis-analytics/metalquery-tui/internal/viz"
)

// chartFallbackNotice is shown when a chart fails to render and the data
// table takes its place.
const chartFallbackNotice = "Unable to render chart. Showing data table instead."

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one transcript message: a colored bubble for the
// text plus, for assistant answers, the artifact sections underneath
// (SQL, chart, result table, document images, retrieval scores).
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowSQL       bool
	RowLimit      int

	// ResolveAsset maps a server-relative image path to a full URL.
	ResolveAsset func(model.ImageRef) string
}

// NewMessageBubble creates a bubble with display defaults.
func NewMessageBubble(msg *model.Message) *MessageBubble {
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowSQL:       true,
		RowLimit:      DefaultRowLimit,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}
	switch {
	case b.Message.Role == model.RoleUser:
		return b.renderUserBubble()
	case b.Message.IsError:
		return b.renderErrorBubble()
	default:
		return b.renderAssistantBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Render(wrapped)

	header := b.renderHeader("you")

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	margin := lipgloss.NewStyle().MarginLeft(leftMargin)
	return lipgloss.JoinVertical(lipgloss.Right, margin.Render(header), margin.Render(bubble))
}

// ==========================================================================
// ASSISTANT BUBBLE - Purple tones, left-aligned, artifacts below
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.AssistantBubbleFg).
		Background(styles.AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AssistantBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4).
		Render(wrapped)

	parts := []string{b.renderHeader("assistant"), bubble}
	if artifacts := b.renderArtifacts(); artifacts != "" {
		parts = append(parts, artifacts)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderArtifacts stacks the answer's structured sections.
func (b *MessageBubble) renderArtifacts() string {
	msg := b.Message
	artifactWidth := b.Width - 6
	if artifactWidth < 24 {
		artifactWidth = 24
	}

	var sections []string

	if b.ShowSQL && msg.SQL != "" {
		block := NewSQLBlock(msg.SQL)
		block.SetMaxWidth(artifactWidth)
		sections = append(sections, block.Render())
	}

	if msg.Chart != nil {
		renderer := viz.New(artifactWidth)
		chart, ok := renderer.RenderSafe(msg.Chart, msg.Results)
		if !ok {
			sections = append(sections, styles.RenderWarning(chartFallbackNotice))
		} else if chart != "" {
			sections = append(sections, strings.TrimRight(chart, "\n"))
		}
	}

	if msg.HasResults() {
		table := NewResultTable(msg.Results, msg.RowCount)
		table.RowLimit = b.RowLimit
		table.MaxWidth = artifactWidth
		sections = append(sections, table.Render())
	}

	if len(msg.Images) > 0 {
		gallery := ImageGallery{Images: msg.Images, ResolveURL: b.ResolveAsset, MaxWidth: artifactWidth}
		sections = append(sections, gallery.Render())
	}

	if scores := RenderScores(msg.Confidence, msg.Relevance); scores != "" {
		sections = append(sections, scores)
	}

	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n")
}

// ==========================================================================
// ERROR BUBBLE - Rose tones for failed queries
// ==========================================================================

func (b *MessageBubble) renderErrorBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "Something went wrong."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(styles.StatusIndicators.Error+" "+content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := lipgloss.NewStyle().
		Foreground(styles.ErrorBubbleFg).
		Background(styles.ErrorBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.ErrorBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4).
		Render(wrapped)

	return lipgloss.JoinVertical(lipgloss.Left, b.renderHeader("assistant"), bubble)
}

// renderHeader builds the role/timestamp line above a bubble.
func (b *MessageBubble) renderHeader(role string) string {
	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render(role)
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		ts := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(formatTime(b.Message.Timestamp))
		header += " " + ts
	}
	return header
}
