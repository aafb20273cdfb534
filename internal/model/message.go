// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single turn in the conversation.
// It is immutable once appended; its identity is its position in the history.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Metadata  *Metadata `json:"metadata"`
	Timestamp time.Time `json:"timestamp"`
}

// Metadata carries the optional extras returned by the backend.
type Metadata struct {
	Files []Attachment `json:"files,omitempty"`
}

// NewMessage creates a message stamped with the given instant.
func NewMessage(role Role, content string, meta *Metadata, now time.Time) Message {
	return Message{
		Role:      role,
		Content:   content,
		Metadata:  meta,
		Timestamp: now,
	}
}

// Files returns the message attachments, or nil when there are none.
func (m Message) Files() []Attachment {
	if m.Metadata == nil {
		return nil
	}
	return m.Metadata.Files
}

// HasFiles reports whether the message carries attachments.
func (m Message) HasFiles() bool {
	return len(m.Files()) > 0
}

// IsBlank reports whether the content is empty after trimming whitespace.
func (m Message) IsBlank() bool {
	return strings.TrimSpace(m.Content) == ""
}

// Equal compares two messages field by field. Timestamps are compared with
// time.Time.Equal so a value that went through JSON still matches.
func (m Message) Equal(o Message) bool {
	if m.Role != o.Role || m.Content != o.Content || !m.Timestamp.Equal(o.Timestamp) {
		return false
	}
	a, b := m.Files(), o.Files()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return (m.Metadata == nil) == (o.Metadata == nil)
}
