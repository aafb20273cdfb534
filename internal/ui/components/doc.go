// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders the pieces of the chat screen: message bubbles,
// attachment cards, the file viewer overlay and status toasts.
//
// Message content arrives as the display markup produced by the markdown
// package. PaintMarkup walks that markup with the x/net/html tokenizer and
// turns each element into terminal styling, so the terminal and the HTML
// transcript share one renderer.
package components
