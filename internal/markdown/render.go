// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	fencedRe = regexp.MustCompile("(?s)```([A-Za-z0-9_+#.-]*)\n(.*?)\n```")
	inlineRe = regexp.MustCompile("`([^`]+)`")
	boldRe   = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe = regexp.MustCompile(`\*([^*]+)\*`)
	linkRe   = regexp.MustCompile(`\[([^\]]+)\]\(([^)\n]+)\)`)
	holderRe = regexp.MustCompile("\x00(\\d+)\x00")
)

// emphasisSource turns emphasis markup back into its markdown. Prose is
// escaped before the emphasis passes, so these are the only tags a link
// target can hold.
var emphasisSource = strings.NewReplacer(
	"<strong>", "**", "</strong>", "**",
	"<em>", "*", "</em>", "*",
)

// DefaultCodeLabel labels fenced blocks that carry no language tag.
const DefaultCodeLabel = "code"

// CodeBlock is one fenced block in message text.
type CodeBlock struct {
	Lang string
	Body string
}

// Label returns the language tag or DefaultCodeLabel.
func (c CodeBlock) Label() string {
	if c.Lang == "" {
		return DefaultCodeLabel
	}
	return c.Lang
}

// CodeBlockID returns the element id of the n-th fenced block (1-based).
func CodeBlockID(n int) string {
	return "code-block-" + strconv.Itoa(n)
}

// CodeBlocks lists the fenced blocks of text in order of appearance.
func CodeBlocks(text string) []CodeBlock {
	matches := fencedRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	blocks := make([]CodeBlock, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, CodeBlock{Lang: m[1], Body: m[2]})
	}
	return blocks
}

// =============================================================================
// RENDER
// =============================================================================

// Render converts message text to markup. It never fails; empty input gives
// empty output.
//
// Fenced blocks and inline code spans are swapped for opaque placeholders as
// soon as they are rendered, so the later passes cannot match inside them.
func Render(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\x00", "")

	// held keeps the markup of each swapped span; plain keeps its escaped
	// source text, which is all an attribute may receive.
	var held, plain []string
	hold := func(markup, text string) string {
		held = append(held, markup)
		plain = append(plain, text)
		return "\x00" + strconv.Itoa(len(held)-1) + "\x00"
	}
	restore := func(s string, from []string) string {
		return holderRe.ReplaceAllStringFunc(s, func(match string) string {
			i, err := strconv.Atoi(match[1 : len(match)-1])
			if err != nil || i >= len(from) {
				return match
			}
			return from[i]
		})
	}

	// 1. fenced code blocks
	ordinal := 0
	text = fencedRe.ReplaceAllStringFunc(text, func(match string) string {
		m := fencedRe.FindStringSubmatch(match)
		ordinal++
		return hold(codeBlockMarkup(ordinal, CodeBlock{Lang: m[1], Body: m[2]}),
			strings.Join(strings.Fields(Escape(m[2])), " "))
	})

	// The remaining prose is escaped once, which also makes inline code
	// content and link targets safe to embed.
	text = Escape(text)

	// 2. inline code
	text = inlineRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := match[1 : len(match)-1]
		return hold(`<code class="inline-code">`+inner+`</code>`, inner)
	})

	// 3. bold, 4. italic
	text = boldRe.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicRe.ReplaceAllString(text, "<em>$1</em>")

	// 5. links
	text = linkRe.ReplaceAllStringFunc(text, func(match string) string {
		m := linkRe.FindStringSubmatch(match)
		href := safeHref(restore(emphasisSource.Replace(m[2]), plain))
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, href, m[1])
	})

	// 6. line breaks
	text = strings.ReplaceAll(text, "\n", "<br>")

	return restore(text, held)
}

func codeBlockMarkup(n int, block CodeBlock) string {
	id := CodeBlockID(n)
	var sb strings.Builder
	sb.WriteString(`<div class="code-block-wrapper">`)
	sb.WriteString(`<div class="code-block-header">`)
	sb.WriteString(Escape(block.Label()))
	sb.WriteString(`<button class="copy-button" data-copy-target="` + id + `">Copy</button>`)
	sb.WriteString(`</div>`)
	sb.WriteString(`<pre class="code-block-content" id="` + id + `"><code>`)
	sb.WriteString(Escape(block.Body))
	sb.WriteString(`</code></pre></div>`)
	return sb.String()
}

// safeHref drops script-bearing schemes. The input is already escaped.
func safeHref(href string) string {
	href = strings.TrimSpace(href)
	i := strings.IndexByte(href, ':')
	if i < 0 {
		return href
	}
	scheme := strings.ToLower(href[:i])
	switch {
	case scheme == "http", scheme == "https", scheme == "mailto":
		return href
	case strings.ContainsAny(scheme, "/?#"):
		// "a/b:c" is a relative reference, not a scheme.
		return href
	}
	return "#"
}
