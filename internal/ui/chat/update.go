// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/config"
	"github.com/ignis-analytics/metalquery-tui/internal/logger"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/components"
)

// statusTTL is how long a transient status bar note stays visible.
const statusTTL = 4 * time.Second

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.state != StateSending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case QueryResultMsg:
		return m.handleQueryResult(msg)

	case HealthMsg:
		m.healthKnown = true
		m.healthy = msg.Status.OK()
		if !m.healthy && msg.Status.Error != "" {
			logger.L().Warn("backend unhealthy", zap.String("error", msg.Status.Error))
		}
		return m, nil

	case SchemaMsg:
		return m.handleSchema(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			return m.setStatus("Export failed: " + msg.Err.Error())
		}
		return m.setStatus("Transcript saved to " + msg.Path)

	case ConfigReloadedMsg:
		// The watcher already swapped the global; pick it up so row
		// limits and SQL visibility change without a restart.
		m.cfg = config.Global()
		m.refreshViewport(false)
		return m.setStatus("Configuration reloaded")

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMsg = ""
		}
		return m, nil
	}

	// Everything else goes to the focused input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	viewportHeight := msg.Height - chromeHeight(m)
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(msg.Width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = viewportHeight
	}
	m.refreshViewport(true)
	return m
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		return m.handleCancel()

	case key.Matches(msg, m.keys.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keys.EditLast):
		return m.startEditLast()

	case key.Matches(msg, m.keys.CycleMode):
		m.mode = m.mode.Next()
		return m.setStatus("Query mode: " + m.mode.Label())

	case key.Matches(msg, m.keys.NewChat):
		return m.resetConversation()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.refreshViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	// Number keys pick a suggestion chip while the conversation is fresh
	// and nothing has been typed.
	if m.freshConversation() && m.input.Value() == "" && m.state == StateIdle {
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(components.Suggestions) {
			return m.submit(components.Suggestions[n-1])
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleCancel() (tea.Model, tea.Cmd) {
	if m.state == StateSending {
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.state = StateIdle
		m.pendingUserID = ""
		return m.setStatus("Query cancelled")
	}
	if m.editingID != "" {
		m.editingID = ""
		m.input.SetValue("")
		return m.setStatus("Edit cancelled")
	}
	return m, nil
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		m.input.SetValue("")
		return m.runCommand(text)
	}
	return m.submit(text)
}

// =============================================================================
// SUBMIT / EDIT / RESET
// =============================================================================

// submit sends a question. A no-op while a query is already in flight:
// one question at a time keeps transcript ordering deterministic.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.state == StateSending {
		return m, nil
	}

	// An edit first rewinds the transcript to just before the original
	// question, discarding it and every later message.
	if m.editingID != "" {
		m.conversation.TruncateFrom(m.editingID)
		m.editingID = ""
	}

	userMsg := model.NewUserMessage(text)
	m.conversation.Append(userMsg)
	m.pendingUserID = userMsg.ID
	m.state = StateSending
	m.input.SetValue("")
	m.refreshViewport(true)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return m, tea.Batch(
		m.spinner.Tick,
		queryCmd(ctx, m.client, m.cfg.Query.DualEndpoint, userMsg.ID, text, m.mode),
	)
}

// startEditLast loads the most recent question back into the input.
func (m Model) startEditLast() (tea.Model, tea.Cmd) {
	if m.state == StateSending {
		return m, nil
	}
	last := m.conversation.LastUserMessage()
	if last == nil {
		return m, nil
	}
	m.editingID = last.ID
	m.input.SetValue(last.Content)
	m.input.CursorEnd()
	return m.setStatus("Editing previous question; Enter resubmits, Esc cancels")
}

func (m Model) resetConversation() (tea.Model, tea.Cmd) {
	if m.state == StateSending && m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.state = StateIdle
	m.pendingUserID = ""
	m.editingID = ""
	m.conversation.Reset()
	m.input.SetValue("")
	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// QUERY RESULT HANDLING
// =============================================================================

func (m Model) handleQueryResult(msg QueryResultMsg) (tea.Model, tea.Cmd) {
	// A result for a question that was cancelled or edited away is stale.
	if msg.UserID != m.pendingUserID {
		return m, nil
	}
	m.state = StateIdle
	m.pendingUserID = ""
	m.cancel = nil

	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.conversation.Append(errorMessage(msg.Err))
		m.refreshViewport(true)
		return m, nil
	}

	m.conversation.Append(assistantMessage(msg.Result))
	m.refreshViewport(true)
	return m, nil
}

// assistantMessage converts a query result into a transcript message.
func assistantMessage(res *api.QueryResult) *model.Message {
	text := res.Response
	if text == "" {
		text = "Found " + strconv.Itoa(res.RowCount) + " results."
	}
	msg := model.NewAssistantMessage(text)
	msg.SQL = res.SQL
	msg.Results = res.Results
	msg.RowCount = res.RowCount
	msg.Chart = res.Chart
	msg.Images = res.Images
	msg.Confidence = res.Confidence
	msg.Relevance = res.Relevance
	return msg
}

// errorMessage phrases a failure for the transcript, split by error
// family: logical refusals, auth, timeouts, and transport.
func errorMessage(err error) *model.Message {
	var qerr *api.QueryError
	var apiErr *api.APIError
	switch {
	case errors.As(err, &qerr):
		return model.NewErrorMessage("Sorry, I couldn't process that: " + qerr.Message)
	case errors.Is(err, api.ErrUnauthenticated):
		return model.NewErrorMessage("Authentication required. Check your API token in the configuration.")
	case errors.Is(err, api.ErrForbidden):
		return model.NewErrorMessage("Access denied. Your account does not have permission to query this data.")
	case api.IsTimeout(err):
		return model.NewErrorMessage("Request timeout. The server took too long to respond.")
	case errors.As(err, &apiErr):
		return model.NewErrorMessage("Sorry, I couldn't process that: " + apiErr.Error())
	default:
		return model.NewErrorMessage("Connection error: " + err.Error() + ". Please check if the server is running.")
	}
}

// =============================================================================
// COMMANDS (tea.Cmd constructors)
// =============================================================================

// queryCmd runs the query off the UI goroutine.
func queryCmd(ctx context.Context, client QueryClient, dual bool, userID, question string, mode api.Mode) tea.Cmd {
	return func() tea.Msg {
		var (
			res *api.QueryResult
			err error
		)
		if dual {
			res, err = client.DualQuery(ctx, question, mode)
		} else {
			res, err = client.Chat(ctx, question, mode)
		}
		return QueryResultMsg{UserID: userID, Result: res, Err: err}
	}
}

func healthCmd(client QueryClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return HealthMsg{Status: client.Health(ctx)}
	}
}

func schemaCmd(client QueryClient) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		info, err := client.Schema(ctx)
		return SchemaMsg{Info: info, Err: err}
	}
}

// setStatus shows a transient status bar note.
func (m Model) setStatus(text string) (Model, tea.Cmd) {
	m.statusMsg = text
	m.statusSeq++
	seq := m.statusSeq
	return m, tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
