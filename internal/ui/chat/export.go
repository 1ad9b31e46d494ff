// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// exportCmd writes the transcript as markdown. An empty path picks a
// timestamped file in the working directory.
func exportCmd(conv *model.Conversation, path string) tea.Cmd {
	// Snapshot under the UI goroutine; the write happens off it.
	md := TranscriptMarkdown(conv)
	return func() tea.Msg {
		if path == "" {
			path = "metalquery-" + time.Now().Format("20060102-150405") + ".md"
		}
		if err := util.AtomicWriteFile(path, []byte(md), 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// TranscriptMarkdown renders the conversation as a markdown document.
func TranscriptMarkdown(conv *model.Conversation) string {
	var b strings.Builder
	b.WriteString("# IGNIS Furnace Analytics Conversation\n\n")
	b.WriteString("Exported " + time.Now().Format("2006-01-02 15:04") + "\n\n")

	for _, msg := range conv.Messages {
		switch {
		case msg.Role == model.RoleUser:
			b.WriteString("## You\n\n" + msg.Content + "\n\n")
		case msg.IsError:
			b.WriteString("## Assistant (error)\n\n" + msg.Content + "\n\n")
		default:
			b.WriteString("## Assistant\n\n" + msg.Content + "\n\n")
			writeArtifacts(&b, msg)
		}
	}
	return b.String()
}

func writeArtifacts(b *strings.Builder, msg *model.Message) {
	if msg.SQL != "" {
		b.WriteString("```sql\n" + strings.TrimSpace(msg.SQL) + "\n```\n\n")
	}

	if len(msg.Results) > 0 {
		cols := msg.Results[0].Columns()
		b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
		for _, row := range msg.Results {
			cells := make([]string, len(cols))
			for i, col := range cols {
				cells[i] = cellMarkdown(row.Get(col))
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		b.WriteString("\n")
	}

	if len(msg.Images) > 0 {
		for _, img := range msg.Images {
			caption := img.Caption
			if caption == "" {
				caption = img.Path
			}
			b.WriteString("![" + caption + "](" + img.Path + ")\n")
		}
		b.WriteString("\n")
	}
}

func cellMarkdown(v any) string {
	switch s := v.(type) {
	case nil:
		return "-"
	case string:
		return strings.ReplaceAll(s, "|", "\\|")
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
