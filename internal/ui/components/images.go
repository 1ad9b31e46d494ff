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

// =============================================================================
// IMAGE GALLERY
// =============================================================================

// ImageGallery lists document images attached to an answer. Terminals
// cannot inline the bitmaps, so each entry shows its caption, source
// document, page, and a resolvable URL.
type ImageGallery struct {
	Images     []model.ImageRef
	ResolveURL func(model.ImageRef) string
	MaxWidth   int
}

// Render renders the gallery list, or "" with no images.
func (g ImageGallery) Render() string {
	if len(g.Images) == 0 {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Purple)
	captionStyle := lipgloss.NewStyle().Foreground(styles.TextPrimary)
	metaStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	urlStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Underline(true)

	var b strings.Builder
	label := "Document Images (" + format.Number(float64(len(g.Images))) + ")"
	b.WriteString(headerStyle.Render(label) + "\n")

	for _, img := range g.Images {
		caption := img.Caption
		if caption == "" {
			caption = img.Path
		}
		b.WriteString("• " + captionStyle.Render(caption))

		var meta []string
		if img.Source != "" {
			meta = append(meta, img.Source)
		}
		if img.Page > 0 {
			meta = append(meta, "p. "+format.Number(float64(img.Page)))
		}
		if len(meta) > 0 {
			b.WriteString(" " + metaStyle.Render("("+strings.Join(meta, ", ")+")"))
		}
		b.WriteByte('\n')

		url := img.Path
		if g.ResolveURL != nil {
			url = g.ResolveURL(img)
		}
		if g.MaxWidth > 8 {
			url = runewidth.Truncate(url, g.MaxWidth-4, "…")
		}
		b.WriteString("  " + urlStyle.Render(url) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
