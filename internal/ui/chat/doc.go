// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea model of the sopchat screen.
//
// The model owns no conversation data itself. Every change goes through
// widget.State, and every slow operation (the backend round trip, each
// attachment probe, the viewer text fetch and the capture warning timer)
// runs as a tea.Cmd that reports back with exactly one message:
//
//	ReplyMsg          backend answered or failed
//	ProbeResultMsg    one attachment card settled
//	ViewerLoadedMsg   a text file finished loading
//	GuardExpiredMsg   the capture warning may hide
//	CopiedMsg         a code block reached the clipboard
//
// Key events are offered to the application input bus before normal
// handling, which is how the capture guard suppresses keys while the file
// viewer is open.
package chat
