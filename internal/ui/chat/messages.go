// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/backend"
	"github.com/jeranaias/sopchat/internal/guard"
	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/viewer"
	"github.com/jeranaias/sopchat/internal/widget"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// initMsg starts history restore on the update goroutine.
type initMsg struct{}

// ReplyMsg carries the outcome of one backend round trip.
type ReplyMsg struct {
	Reply backend.Reply
	Err   error
}

// ProbeResultMsg settles one attachment card of the history epoch it was
// queued in.
type ProbeResultMsg struct {
	Epoch   uint64
	Message int
	Card    int
	Result  attachment.Result
}

// ViewerLoadedMsg delivers a finished text load.
type ViewerLoadedMsg struct {
	Result viewer.Result
}

// GuardExpiredMsg lets the capture warning hide if Seq is still current.
type GuardExpiredMsg struct {
	Seq uint64
}

// CopiedMsg reports a clipboard write.
type CopiedMsg struct {
	N     int
	Label string
	Err   error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

func initCmd() tea.Cmd {
	return func() tea.Msg { return initMsg{} }
}

// submitCmd sends the whole history to the backend.
func submitCmd(c backend.Completer, msgs []model.Message) tea.Cmd {
	return func() tea.Msg {
		reply, err := c.Complete(context.Background(), msgs)
		return ReplyMsg{Reply: reply, Err: err}
	}
}

// probeCmd checks one card.
func probeCmd(v attachment.Verifier, p widget.Probe) tea.Cmd {
	return func() tea.Msg {
		return ProbeResultMsg{
			Epoch:   p.Epoch,
			Message: p.Message,
			Card:    p.Card,
			Result:  v.Verify(context.Background(), p.URL),
		}
	}
}

// probeCmds turns queued probes into independent commands.
func probeCmds(v attachment.Verifier, probes []widget.Probe) []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(probes))
	for _, p := range probes {
		cmds = append(cmds, probeCmd(v, p))
	}
	return cmds
}

func viewerLoadCmd(load viewer.Load) tea.Cmd {
	if load == nil {
		return nil
	}
	return func() tea.Msg {
		return ViewerLoadedMsg{Result: load(context.Background())}
	}
}

func guardExpiryCmd(e guard.Expiry) tea.Cmd {
	seq := e.Seq
	return tea.Tick(e.After, func(time.Time) tea.Msg {
		return GuardExpiredMsg{Seq: seq}
	})
}

func copyCmd(write func(string) error, n int, block markdown.CodeBlock) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{N: n, Label: block.Label(), Err: write(block.Body)}
	}
}
