// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/ui/styles"
	"github.com/jeranaias/sopchat/internal/util"
)

// CardWidth is the outer width of one attachment card.
const CardWidth = 28

const cardNameWidth = CardWidth - 4

// RenderCard draws one attachment card.
func RenderCard(card attachment.Card, p *locale.Printer, th *styles.Theme, focused bool) string {
	pres := attachment.Present(p, card.State, card.File)
	accent := styles.CardColor(card.State.String())

	name := util.TruncateWidth(card.File.Name, cardNameWidth-3)
	lines := []string{
		pres.Icon + " " + name,
		lipgloss.NewStyle().Foreground(accent).Render(pres.Label),
	}
	if card.State == attachment.StateAvailable {
		if size := attachment.SizeLabel(card.Result.Size); size != "" {
			lines = append(lines, th.Timestamp.Render(size))
		}
	}

	st := th.Card
	if focused {
		st = th.CardFocused
	} else {
		st = st.Copy().BorderForeground(accent)
	}
	return st.Width(CardWidth - 2).Render(strings.Join(lines, "\n"))
}

// RenderGallery lays the cards of g out in rows that fit width. focus is the
// focused card index, or -1.
func RenderGallery(g *attachment.Gallery, p *locale.Printer, th *styles.Theme, width, focus int) string {
	if g == nil || g.Len() == 0 {
		return ""
	}
	perRow := width / CardWidth
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	var row []string
	for _, c := range g.Cards() {
		row = append(row, RenderCard(c, p, th, c.Index == focus))
		if len(row) == perRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	header := th.FilesHeader.Render("📋 " + p.T(locale.FilesHeader))
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, rows...)...)
}
