// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/net/html"

	"github.com/jeranaias/sopchat/internal/ui/styles"
)

// PaintMarkup converts display markup into styled terminal text. Unknown
// elements are dropped and their text kept.
func PaintMarkup(markup string, th *styles.Theme) string {
	p := &painter{th: th}
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			p.text(tok.Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			p.start(tok)
		case html.EndTagToken:
			p.end(tok)
		}
	}
	return p.out.String()
}

type painter struct {
	th  *styles.Theme
	out strings.Builder

	bold, italic int
	inlineCode   bool

	inLink   bool
	href     string
	linkText strings.Builder

	inHeader bool
	label    strings.Builder
	inButton bool
	copyN    int
	blocks   int

	inPre   bool
	preKind string
	preBuf  strings.Builder
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(tok html.Token, class string) bool {
	for _, c := range strings.Fields(attr(tok, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func (p *painter) style() (lipgloss.Style, bool) {
	switch {
	case p.inlineCode:
		return p.th.InlineCode, true
	case p.bold > 0 || p.italic > 0:
		return lipgloss.NewStyle().Bold(p.bold > 0).Italic(p.italic > 0), true
	}
	return lipgloss.Style{}, false
}

func (p *painter) text(s string) {
	switch {
	case p.inButton:
		return
	case p.inHeader:
		p.label.WriteString(s)
		return
	case p.inPre:
		p.preBuf.WriteString(s)
		return
	case p.inLink:
		p.linkText.WriteString(s)
		return
	}
	if st, ok := p.style(); ok {
		p.out.WriteString(st.Render(s))
		return
	}
	p.out.WriteString(s)
}

func (p *painter) start(tok html.Token) {
	switch tok.Data {
	case "strong", "b":
		p.bold++
	case "em", "i":
		p.italic++
	case "code":
		if !p.inPre {
			p.inlineCode = true
		}
	case "a":
		p.inLink = true
		p.href = attr(tok, "href")
		p.linkText.Reset()
	case "br":
		p.out.WriteString("\n")
	case "div":
		if hasClass(tok, "code-block-header") {
			p.inHeader = true
			p.label.Reset()
		}
	case "button":
		p.inButton = true
		target := attr(tok, "data-copy-target")
		if n, err := strconv.Atoi(strings.TrimPrefix(target, "code-block-")); err == nil {
			p.copyN = n
		}
	case "pre":
		p.inPre = true
		p.preKind = attr(tok, "class")
		p.preBuf.Reset()
	case "img":
		p.newline()
		p.out.WriteString(p.th.Strong.Render(attr(tok, "alt")))
		p.out.WriteString("\n")
		p.out.WriteString(p.th.Link.Render(attr(tok, "src")))
	}
}

func (p *painter) end(tok html.Token) {
	switch tok.Data {
	case "strong", "b":
		if p.bold > 0 {
			p.bold--
		}
	case "em", "i":
		if p.italic > 0 {
			p.italic--
		}
	case "code":
		if !p.inPre {
			p.inlineCode = false
		}
	case "a":
		p.inLink = false
		label := p.linkText.String()
		p.out.WriteString(p.th.Link.Render(label))
		if p.href != "" && p.href != "#" && p.href != label {
			p.out.WriteString(" " + p.th.Timestamp.Render("<"+p.href+">"))
		}
	case "div":
		p.inHeader = false
	case "button":
		p.inButton = false
	case "pre":
		p.inPre = false
		body := p.preBuf.String()
		if p.preKind == "code-block-content" {
			p.blocks++
			n := p.copyN
			if n == 0 {
				n = p.blocks
			}
			p.newline()
			p.out.WriteString(RenderCodeBlock(strings.TrimSpace(p.label.String()), body, n, p.th))
			p.copyN = 0
			return
		}
		p.out.WriteString(body)
	}
}

// newline starts a fresh line unless the output already sits on one.
func (p *painter) newline() {
	s := p.out.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		p.out.WriteString("\n")
	}
}
