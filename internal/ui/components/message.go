// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus points at one attachment card in the transcript.
type Focus struct {
	Active  bool
	Message int
	Card    int
}

// cardFor returns the focused card index inside message index, or -1.
func (f Focus) cardFor(index int) int {
	if !f.Active || f.Message != index {
		return -1
	}
	return f.Card
}

// =============================================================================
// MESSAGES
// =============================================================================

// MessageOptions carries what message rendering needs besides the data.
type MessageOptions struct {
	Theme   *styles.Theme
	Printer *locale.Printer
	Width   int
	Focus   Focus
}

// RenderMessage draws one message bubble with its role label and, for
// assistant messages carrying files, the gallery underneath.
func RenderMessage(msg model.Message, index int, g *attachment.Gallery, opts MessageOptions) string {
	th := opts.Theme
	width := opts.Width
	if width < 20 {
		width = 20
	}

	roleKey, bubble, align := locale.RoleAssistant, th.AssistantBubble, lipgloss.Left
	if msg.Role == model.RoleUser {
		roleKey, bubble, align = locale.RoleUser, th.UserBubble, lipgloss.Right
	}

	label := th.RoleLabel.Render(opts.Printer.T(roleKey))
	if !msg.Timestamp.IsZero() {
		label += " " + th.Timestamp.Render(msg.Timestamp.Local().Format("15:04"))
	}

	body := PaintMarkup(markdown.Render(msg.Content), th)
	bubbleWidth := width * 4 / 5
	if w := lipgloss.Width(body) + 4; w < bubbleWidth {
		bubbleWidth = w
	}
	parts := []string{label, bubble.Width(bubbleWidth - 2).Render(body)}

	if msg.Role == model.RoleAssistant && g != nil {
		parts = append(parts, RenderGallery(g, opts.Printer, th, width, opts.Focus.cardFor(index)))
	}

	block := lipgloss.JoinVertical(align, parts...)
	return lipgloss.PlaceHorizontal(width, align, block)
}

// RenderMessages draws the whole transcript in order. galleries is keyed by
// message index.
func RenderMessages(msgs []model.Message, galleries map[int]*attachment.Gallery, opts MessageOptions) string {
	out := make([]string, 0, len(msgs))
	for i, msg := range msgs {
		out = append(out, RenderMessage(msg, i, galleries[i], opts))
	}
	return strings.Join(out, "\n\n")
}
