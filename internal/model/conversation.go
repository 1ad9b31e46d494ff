// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessages is the maximum number of messages to keep in conversation
// history. When exceeded, the oldest messages are pruned to prevent
// unbounded memory growth in long sessions.
const MaxMessages = 1000

// WelcomeText seeds every new conversation.
const WelcomeText = "Welcome to IGNIS Furnace Analytics! I can help you query furnace KPIs, analyze production data, or answer questions from BRD documents. What would you like to know?"

// ClearedText seeds the conversation after a reset.
const ClearedText = "Chat cleared. How can I help you explore the metallurgy database?"

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat transcript with metadata.
type Conversation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates a conversation seeded with the welcome message.
func NewConversation() *Conversation {
	c := &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
	c.Append(NewAssistantMessage(WelcomeText))
	return c
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds a message to the conversation.
func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.prune()
}

// MessageByID returns the message with the given ID, or nil.
func (c *Conversation) MessageByID(id string) *Message {
	for _, m := range c.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastUserMessage returns the most recent user message, or nil.
func (c *Conversation) LastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// TruncateFrom removes the message with the given ID and everything after
// it. It returns the removed message, or nil if the ID was not found, in
// which case the conversation is unchanged.
func (c *Conversation) TruncateFrom(id string) *Message {
	for i, m := range c.Messages {
		if m.ID == id {
			c.Messages = c.Messages[:i]
			c.UpdatedAt = time.Now()
			return m
		}
	}
	return nil
}

// Reset discards the transcript and reseeds it with the post-clear greeting.
func (c *Conversation) Reset() {
	c.Messages = c.Messages[:0]
	c.Append(NewAssistantMessage(ClearedText))
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.Messages)
}

// UserMessageCount returns the number of user messages.
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

// prune drops the oldest messages when the history exceeds MaxMessages.
func (c *Conversation) prune() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append(c.Messages[:0], c.Messages[excess:]...)
}
