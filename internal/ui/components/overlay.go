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
	"github.com/jeranaias/sopchat/internal/viewer"
)

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// OverlayRect is where the viewer box sits on a width x height screen.
// Everything outside it is backdrop.
func OverlayRect(width, height int) Rect {
	w := width * 4 / 5
	h := height * 4 / 5
	if w < 30 {
		w = min(width, 30)
	}
	if h < 8 {
		h = min(height, 8)
	}
	return Rect{X: (width - w) / 2, Y: (height - h) / 2, W: w, H: h}
}

// OverlayBodySize is the room left for the viewer content inside the box,
// after the border, padding, title and hint lines.
func OverlayBodySize(width, height int) (w, h int) {
	r := OverlayRect(width, height)
	return max(r.W-4, 1), max(r.H-4, 1)
}

// ViewerContent renders the session of h for the overlay body. It returns
// the loading line while text is still in flight.
func ViewerContent(h *viewer.Handle, p *locale.Printer, th *styles.Theme) string {
	s, ok := h.Session()
	if !ok {
		return th.Help.Render(p.T(locale.LoadingFile))
	}
	switch s.Kind {
	case viewer.KindImage:
		return attachment.IconImage + " " + th.Strong.Render(s.Name) + "\n\n" +
			th.Help.Render(p.T(locale.ImagePreview)) + "\n" + th.Link.Render(s.Payload)
	case viewer.KindText:
		return PaintMarkup(s.Markup(), th)
	default:
		return th.OverlayError.Render(PaintMarkup(s.Markup(), th))
	}
}

// RenderOverlay draws the viewer box holding body centred over a shaded
// backdrop. warning, when non-empty, is drawn as a banner inside the box.
func RenderOverlay(h *viewer.Handle, body, warning string, p *locale.Printer, th *styles.Theme, width, height int) string {
	r := OverlayRect(width, height)
	inner := r.W - 4

	title := th.OverlayTitle.Render(util.TruncateWidth(h.Attachment().Name, inner))
	hint := th.Help.Render(p.T(locale.ViewerHint))
	if warning != "" {
		hint = th.Warning.Width(inner).Render(util.TruncateWidth(warning, inner-2))
	}

	bodyLines := strings.Split(body, "\n")
	if limit := r.H - 4; limit > 0 && len(bodyLines) > limit {
		bodyLines = bodyLines[:limit]
	}
	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(bodyLines, "\n"), hint)

	box := th.Overlay.
		Width(r.W - 2).
		Height(r.H - 2).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(styles.Backdrop))
}
