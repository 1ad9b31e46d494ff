// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// runCommand dispatches a /command typed into the input.
func (m Model) runCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/new", "/clear":
		return m.resetConversation()

	case "/mode":
		if len(args) == 0 {
			return m.setStatus("Query mode: " + m.mode.Label() + " (use /mode auto|nlp-sql|rag)")
		}
		switch strings.ToLower(args[0]) {
		case "auto", "nlp-sql", "rag":
			m.mode = api.ParseMode(strings.ToLower(args[0]))
			return m.setStatus("Query mode: " + m.mode.Label())
		default:
			return m.setStatus("Unknown mode " + args[0] + "; use auto, nlp-sql, or rag")
		}

	case "/health":
		next, cmd := m.setStatus("Checking backend health…")
		return next, tea.Batch(cmd, healthCmd(m.client))

	case "/schema":
		next, cmd := m.setStatus("Fetching schema…")
		return next, tea.Batch(cmd, schemaCmd(m.client))

	case "/export":
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return m, exportCmd(m.conversation, path)

	case "/help":
		m.conversation.Append(model.NewAssistantMessage(helpText()))
		m.refreshViewport(true)
		return m, nil

	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	default:
		return m.setStatus("Unknown command " + cmd + "; try /help")
	}
}

// handleSchema appends the schema listing as an assistant message.
func (m Model) handleSchema(msg SchemaMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.setStatus("Schema fetch failed: " + msg.Err.Error())
	}
	if msg.Info == nil || len(msg.Info.Tables) == 0 {
		return m.setStatus("No schema information available")
	}

	names := make([]string, 0, len(msg.Info.Tables))
	for name := range msg.Info.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Queryable tables:\n")
	for _, name := range names {
		t := msg.Info.Tables[name]
		b.WriteString("• " + name)
		if t.Description != "" {
			b.WriteString(": " + t.Description)
		}
		if len(t.Columns) > 0 {
			b.WriteString(" (" + strings.Join(t.Columns, ", ") + ")")
		}
		b.WriteByte('\n')
	}
	m.conversation.Append(model.NewAssistantMessage(strings.TrimRight(b.String(), "\n")))
	m.refreshViewport(true)
	return m, nil
}

func helpText() string {
	return strings.TrimSpace(`
Commands:
  /new       start a fresh conversation
  /mode M    set query mode (auto, nlp-sql, rag)
  /health    check backend health
  /schema    list queryable tables
  /export P  save the transcript as markdown (optional path)
  /help      show this help
  /quit      exit

Keys:
  Enter      send question        Ctrl+E  edit last question
  Ctrl+T     cycle query mode     Ctrl+N  new chat
  Esc        cancel a running query
  1-8        pick a starter question in a fresh chat`)
}
