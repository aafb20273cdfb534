// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the saved conversation out as a standalone HTML page,
// a Markdown document or JSON.
//
// The HTML transcript embeds the same markup the chat view paints, so code
// blocks keep their labels and copy buttons and links keep their sanitized
// targets. Attachments are listed under the message that carried them.
package export
