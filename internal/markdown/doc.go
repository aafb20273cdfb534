// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package markdown turns chat message text into display markup.
//
// Only a small fixed dialect is understood: fenced code blocks, inline code,
// **bold**, *italic*, [label](url) links and hard line breaks. Each rule is a
// single global pass over the text and the passes always run in that order.
// Anything else is escaped and shown literally.
//
//	markup := markdown.Render("Lihat **SOP** di [sini](https://example.com)")
package markdown
