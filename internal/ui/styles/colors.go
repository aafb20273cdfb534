// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// BRAND
// =============================================================================

var (
	Teal    = lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}
	Indigo  = lipgloss.AdaptiveColor{Light: "#4338CA", Dark: "#A5B4FC"}
	Amber   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	Rose    = lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#FB7185"}
	Emerald = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
)

// =============================================================================
// SURFACES AND TEXT
// =============================================================================

var (
	Surface       = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1B1D23"}
	SurfaceRaised = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#262A33"}
	Backdrop      = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#0B0C0F"}
	Border        = lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#3F4451"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6B7280"}
)

// =============================================================================
// MESSAGES
// =============================================================================

var (
	UserBubbleFg      = lipgloss.AdaptiveColor{Light: "#134E4A", Dark: "#F0FDFA"}
	AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#312E81", Dark: "#E0E7FF"}

	InlineCodeFg = lipgloss.AdaptiveColor{Light: "#9D174D", Dark: "#F9A8D4"}
	InlineCodeBg = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#2E3240"}
	LinkColor    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}
)

// =============================================================================
// ATTACHMENT CARDS
// =============================================================================

var (
	CardChecking    = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	CardAvailable   = Emerald
	CardUnavailable = Rose
	CardError       = Amber
	CardFocus       = Teal
)

// WarningBg and WarningFg color the capture warning banner.
var (
	WarningBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}
	WarningFg = lipgloss.AdaptiveColor{Light: "#78350F", Dark: "#FEF3C7"}
)
