// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the sopchat command tree.
//
// The root command opens the chat TUI. Subcommands cover one-shot questions
// (ask), markdown rendering (render), the saved conversation (history), the
// configuration file (config) and a local fake backend (devserver).
package cli
