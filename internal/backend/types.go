// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import "github.com/jeranaias/sopchat/internal/model"

// WireMessage is a conversation turn as sent to the backend.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is the POST body.
type Request struct {
	Messages []WireMessage `json:"messages"`
}

// Reply is a successful response body.
type Reply struct {
	Content  string          `json:"content"`
	Metadata *model.Metadata `json:"metadata,omitempty"`
}

// NewRequest strips metadata and timestamps from msgs.
func NewRequest(msgs []model.Message) Request {
	wire := make([]WireMessage, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, WireMessage{Role: m.Role.String(), Content: m.Content})
	}
	return Request{Messages: wire}
}
