// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the metalquery
// TUI: message bubbles, result tables, SQL blocks, and status chrome.
package components

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// wordWrap wraps text at word boundaries to fit within maxWidth. Words
// longer than the width are hard-broken.
func wordWrap(text string, maxWidth int) string {
	if maxWidth < 1 {
		return text
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			out = append(out, line)
			continue
		}
		var cur string
		for _, word := range strings.Fields(line) {
			for runewidth.StringWidth(word) > maxWidth {
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				head := runewidth.Truncate(word, maxWidth, "")
				out = append(out, head)
				word = word[len(head):]
			}
			switch {
			case cur == "":
				cur = word
			case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= maxWidth:
				cur += " " + word
			default:
				out = append(out, cur)
				cur = word
			}
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	max := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// formatTime renders a message timestamp for the transcript.
func formatTime(t time.Time) string {
	return t.Format("15:04")
}
