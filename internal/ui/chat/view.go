// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/ui/components"
)

// submitWidth is the room kept right of the input for the submit label.
const submitWidth = 14

// =============================================================================
// MAIN RENDER
// =============================================================================

func (m Model) renderChat() string {
	if m.width == 0 {
		return m.printer.T(locale.InitInProgress)
	}

	if h := m.state.Viewer().Current(); h != nil {
		warning := ""
		if m.state.Viewer().Guard().WarningVisible() {
			warning = m.printer.T(locale.CaptureWarning)
		}
		return components.RenderOverlay(h, m.viewerBody.View(), warning, m.printer, m.theme, m.width, m.height)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("sopchat")
	tag := m.theme.Timestamp.Render(m.printer.Tag().String())
	return m.theme.Header.Width(m.width).Render(title + "  " + tag)
}

func (m Model) renderInput() string {
	var submit string
	switch {
	case m.state.Loading():
		submit = m.theme.SubmitBusy.Render(m.spinner.View() + " " + m.state.SubmitLabel())
	case m.state.CanSubmit(m.input.Value()):
		submit = m.theme.SubmitReady.Render(m.state.SubmitLabel())
	default:
		submit = m.theme.SubmitBusy.Render(m.state.SubmitLabel())
	}

	inputWidth := max(m.width-4-lipgloss.Width(submit)-1, 10)
	field := lipgloss.NewStyle().Width(inputWidth).Render(m.input.View())
	row := lipgloss.JoinHorizontal(lipgloss.Center, field, " ", submit)
	return m.theme.Input.Width(max(m.width-2, 1)).Render(row)
}

func (m Model) renderStatusBar() string {
	if m.toast != nil {
		return m.toast.Render(m.theme)
	}
	return m.theme.Help.Render(m.printer.T(locale.ChatHelp))
}
