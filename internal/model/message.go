// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations, messages,
// query results, and chart specifications.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// IMAGE REFERENCE
// =============================================================================

// ImageRef points at a document image attached to an answer. Paths are
// server-relative; the client joins them against the asset base URL.
type ImageRef struct {
	Path    string `json:"path"`
	Caption string `json:"caption,omitempty"`
	Source  string `json:"source,omitempty"`
	Page    int    `json:"page,omitempty"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation. Assistant messages
// may carry structured artifacts alongside the answer text: the generated
// SQL, tabular results, a chart specification, document images, and
// retrieval scores.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Query artifacts (assistant messages only)
	SQL      string     `json:"sql,omitempty"`
	Results  []Record   `json:"results,omitempty"`
	RowCount int        `json:"row_count,omitempty"`
	Chart    *ChartSpec `json:"chart,omitempty"`
	Images   []ImageRef `json:"images,omitempty"`

	// Retrieval scores, present only when the server reports them.
	Confidence *float64 `json:"confidence_score,omitempty"`
	Relevance  *float64 `json:"relevance_score,omitempty"`

	// IsError marks assistant messages that report a failure rather than
	// an answer. Error messages never carry artifacts.
	IsError bool `json:"is_error,omitempty"`
}

// NewMessage creates a message with a generated ID and current timestamp.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Timestamp: time.Now(),
		Content:   content,
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewErrorMessage creates an assistant message that reports a failure.
func NewErrorMessage(content string) *Message {
	msg := NewMessage(RoleAssistant, content)
	msg.IsError = true
	return msg
}

// IsUser returns true if this is a user message.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// HasResults returns true if the message carries at least one result row.
func (m *Message) HasResults() bool {
	return len(m.Results) > 0
}

// HasArtifacts returns true if the message carries anything beyond text.
func (m *Message) HasArtifacts() bool {
	return m.SQL != "" || len(m.Results) > 0 || m.Chart != nil || len(m.Images) > 0
}
