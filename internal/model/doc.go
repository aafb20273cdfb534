// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Message: one turn with role, content, timestamp and optional metadata
//   - Metadata: backend extras, currently the list of attached files
//   - Attachment: a named remote file (image or text-like)
//   - Role: user or assistant
//
// Messages are values. The storage package owns the ordered history; a
// message's identity is its index in that history.
//
//	msg := model.NewMessage(model.RoleAssistant, "Lihat **SOP** berikut", &model.Metadata{
//	    Files: []model.Attachment{{Name: "sop.txt", Type: "text", URL: "https://example.com/sop.txt"}},
//	}, time.Now())
package model
