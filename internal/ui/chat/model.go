// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ignis-analytics/metalquery-tui/internal/api"
	"github.com/ignis-analytics/metalquery-tui/internal/config"
	"github.com/ignis-analytics/metalquery-tui/internal/model"
	"github.com/ignis-analytics/metalquery-tui/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the controller state. Idle accepts input; Sending has exactly
// one query in flight and ignores further submissions.
type State int

const (
	StateIdle State = iota
	StateSending
)

// QueryClient is the backend surface the chat view needs. *api.Client
// satisfies it; tests substitute fakes.
type QueryClient interface {
	Chat(ctx context.Context, question string, mode api.Mode) (*api.QueryResult, error)
	DualQuery(ctx context.Context, question string, mode api.Mode) (*api.QueryResult, error)
	Health(ctx context.Context) *api.HealthStatus
	Schema(ctx context.Context) (*api.SchemaInfo, error)
	ResolveAssetURL(ref model.ImageRef) string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the conversation view.
type Model struct {
	client QueryClient
	cfg    *config.Config

	conversation *model.Conversation
	state        State
	mode         api.Mode

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	keys     KeyMap

	width  int
	height int
	ready  bool

	healthy     bool
	healthKnown bool

	// statusMsg is a transient note in the status bar; statusSeq
	// invalidates stale clear timers.
	statusMsg string
	statusSeq int

	// pendingUserID is the user message awaiting an answer.
	pendingUserID string
	// editingID marks a user message being edited; submitting truncates
	// the transcript from it first.
	editingID string
	// cancel aborts the in-flight query.
	cancel context.CancelFunc

	showHelp bool
	quitting bool
}

// New creates the chat model.
func New(client QueryClient, cfg *config.Config) Model {
	input := textinput.New()
	input.Placeholder = "Ask about furnace KPIs, production data, or BRD documents…"
	input.Prompt = "> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan)
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return Model{
		client:       client,
		cfg:          cfg,
		conversation: model.NewConversation(),
		state:        StateIdle,
		mode:         api.ParseMode(cfg.Query.DefaultMode),
		input:        input,
		spinner:      sp,
		keys:         DefaultKeyMap(),
	}
}

// Init starts the spinner tick and the initial health probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		healthCmd(m.client),
	)
}

// Conversation exposes the transcript, used by export and tests.
func (m Model) Conversation() *model.Conversation {
	return m.conversation
}

// State returns the controller state.
func (m Model) State() State {
	return m.state
}

// Mode returns the current query mode.
func (m Model) Mode() api.Mode {
	return m.mode
}

// freshConversation reports whether no question has been asked yet, which
// keeps the suggestion chips visible.
func (m Model) freshConversation() bool {
	return m.conversation.UserMessageCount() == 0
}
