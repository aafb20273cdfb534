// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme groups every style the chat view uses.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style

	Strong     lipgloss.Style
	Emphasis   lipgloss.Style
	InlineCode lipgloss.Style
	Link       lipgloss.Style
	CodeHeader lipgloss.Style
	CodeBody   lipgloss.Style
	CopyHint   lipgloss.Style

	FilesHeader lipgloss.Style
	Card        lipgloss.Style
	CardFocused lipgloss.Style

	Input       lipgloss.Style
	SubmitReady lipgloss.Style
	SubmitBusy  lipgloss.Style
	Help        lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style

	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	OverlayError lipgloss.Style
	Backdrop     lipgloss.Style
	Warning      lipgloss.Style
}

// NewTheme builds the theme. mode is auto, dark or light; auto asks the
// terminal.
func NewTheme(mode string) *Theme {
	profile := termenv.ColorProfile()
	var isDark bool
	switch mode {
	case "dark":
		isDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		isDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		isDark = termenv.HasDarkBackground()
	}

	t := &Theme{IsDark: isDark, ColorProfile: profile}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SurfaceRaised).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Teal)

	bubble := lipgloss.NewStyle().
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder())
	t.UserBubble = bubble.Copy().
		Foreground(UserBubbleFg).
		BorderForeground(Teal)
	t.AssistantBubble = bubble.Copy().
		Foreground(AssistantBubbleFg).
		BorderForeground(Indigo)
	t.RoleLabel = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.Strong = lipgloss.NewStyle().Bold(true)
	t.Emphasis = lipgloss.NewStyle().Italic(true)
	t.InlineCode = lipgloss.NewStyle().Foreground(InlineCodeFg).Background(InlineCodeBg)
	t.Link = lipgloss.NewStyle().Foreground(LinkColor).Underline(true)
	t.CodeHeader = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary)
	t.CodeBody = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Border).
		PaddingLeft(1)
	t.CopyHint = lipgloss.NewStyle().Foreground(TextMuted)

	t.FilesHeader = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.CardFocused = t.Card.Copy().BorderForeground(CardFocus)

	t.Input = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.SubmitReady = lipgloss.NewStyle().Bold(true).Foreground(Surface).Background(Teal).Padding(0, 1)
	t.SubmitBusy = lipgloss.NewStyle().Foreground(TextMuted).Background(SurfaceRaised).Padding(0, 1)
	t.Help = lipgloss.NewStyle().Foreground(TextMuted)
	t.Status = lipgloss.NewStyle().Foreground(TextSecondary)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)

	t.Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Teal).
		Padding(0, 1)
	t.OverlayTitle = lipgloss.NewStyle().Bold(true).Foreground(Teal)
	t.OverlayError = lipgloss.NewStyle().Foreground(Rose)
	t.Backdrop = lipgloss.NewStyle().Foreground(Backdrop)
	t.Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(WarningFg).
		Background(WarningBg).
		Padding(0, 1)
}

// CardColor returns the accent for a card state name.
func CardColor(state string) lipgloss.AdaptiveColor {
	switch state {
	case "available":
		return CardAvailable
	case "unavailable":
		return CardUnavailable
	case "error":
		return CardError
	default:
		return CardChecking
	}
}
