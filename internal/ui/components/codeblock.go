// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/ui/styles"
)

// CopyHint is the label drawn next to a code block header.
func CopyHint(n int) string {
	return fmt.Sprintf("[copy %d]", n)
}

// RenderCodeBlock draws a fenced block: a header with the language label
// and copy hint, then the highlighted body.
func RenderCodeBlock(label, body string, n int, th *styles.Theme) string {
	if label == "" {
		label = markdown.DefaultCodeLabel
	}
	header := th.CodeHeader.Render(label) + " " + th.CopyHint.Render(CopyHint(n))
	code := strings.TrimRight(highlightCode(body, label), "\n")
	return lipgloss.JoinVertical(lipgloss.Left, header, th.CodeBody.Render(code))
}

func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}
