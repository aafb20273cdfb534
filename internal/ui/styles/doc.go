// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the sopchat color palette and lipgloss styles.
//
// Colors are lipgloss.AdaptiveColor values so one palette serves light and
// dark terminals. NewTheme detects the terminal with termenv unless the
// theme is forced through config.
package styles
