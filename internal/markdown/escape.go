// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import "html"

// Escape neutralizes &, <, >, " and ' so text can be embedded as element
// content or a quoted attribute value. Escaping already escaped text escapes
// it again.
func Escape(text string) string {
	return html.EscapeString(text)
}

// Unescape reverses Escape. Used when handing code back to the clipboard.
func Unescape(text string) string {
	return html.UnescapeString(text)
}
