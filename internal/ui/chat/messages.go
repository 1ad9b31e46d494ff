// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the Bubble Tea model for the conversation view.
package chat

import (
	"github.com/ignis-analytics/metalquery-tui/internal/api"
)

// =============================================================================
// TEA MESSAGES
// =============================================================================

// QueryResultMsg delivers the outcome of an in-flight query. Exactly one
// of Result and Err is set.
type QueryResultMsg struct {
	// UserID is the transcript ID of the user message that asked.
	UserID string
	Result *api.QueryResult
	Err    error
}

// HealthMsg delivers a backend health probe result.
type HealthMsg struct {
	Status *api.HealthStatus
}

// SchemaMsg delivers the schema listing for /schema.
type SchemaMsg struct {
	Info *api.SchemaInfo
	Err  error
}

// ExportDoneMsg reports the outcome of a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ConfigReloadedMsg tells the model the config file changed on disk.
type ConfigReloadedMsg struct{}

// clearStatusMsg expires the transient status bar message.
type clearStatusMsg struct {
	seq int
}
