// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"

	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/model"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter writes a self-contained page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates a new HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	return &HTMLExporter{options: fill(opts)}
}

// Export renders t as HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	title := markdown.Escape(t.Title)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n")
	fmt.Fprintf(&sb, "<html lang=\"%s\">\n", e.options.Printer.Tag())
	sb.WriteString("<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "    <title>%s</title>\n", title)
	sb.WriteString("    <meta name=\"generator\" content=\"sopchat\">\n")
	sb.WriteString(htmlCSS)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s-theme\">\n", markdown.Escape(e.options.Theme))
	sb.WriteString("    <div class=\"chat-container\">\n")
	fmt.Fprintf(&sb, "        <header class=\"chat-header\"><h1>%s</h1><span>%s</span></header>\n",
		title, formatTimestamp(t.exportedAt()))

	sb.WriteString("        <main class=\"chat-messages\">\n")
	for _, msg := range t.Messages {
		sb.WriteString(e.renderMessage(msg))
	}
	sb.WriteString("        </main>\n")
	sb.WriteString("    </div>\n")
	sb.WriteString(htmlScript)
	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string { return ".html" }

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string { return "text/html" }

// =============================================================================
// RENDERING FUNCTIONS
// =============================================================================

func (e *HTMLExporter) renderMessage(msg model.Message) string {
	p := e.options.Printer
	var sb strings.Builder

	fmt.Fprintf(&sb, "            <div class=\"message %s-message\">\n", msg.Role)
	fmt.Fprintf(&sb, "                <div class=\"message-header\"><span class=\"role-label\">%s</span>",
		markdown.Escape(roleLabel(p, msg.Role)))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		fmt.Fprintf(&sb, " <time>%s</time>", formatTimestamp(msg.Timestamp))
	}
	sb.WriteString("</div>\n")
	fmt.Fprintf(&sb, "                <div class=\"message-content\">%s</div>\n", markdown.Render(msg.Content))

	if files := msg.Files(); msg.Role == model.RoleAssistant && len(files) > 0 {
		sb.WriteString(e.renderFiles(files))
	}
	sb.WriteString("            </div>\n")
	return sb.String()
}

func (e *HTMLExporter) renderFiles(files []model.Attachment) string {
	var sb strings.Builder
	sb.WriteString("                <div class=\"files-container\">\n")
	fmt.Fprintf(&sb, "                    <div class=\"files-header\">%s</div>\n",
		markdown.Escape(e.options.Printer.T(locale.FilesHeader)))
	sb.WriteString("                    <ul class=\"file-list\">\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "                        <li class=\"file-card file-type-%s\"><a href=\"%s\" target=\"_blank\" rel=\"noopener noreferrer\">%s</a> <span class=\"file-type\">%s</span></li>\n",
			markdown.Escape(f.TypeLabel()),
			markdown.Escape(safeURL(f.URL)),
			markdown.Escape(f.Name),
			markdown.Escape(f.TypeLabel()))
	}
	sb.WriteString("                    </ul>\n")
	sb.WriteString("                </div>\n")
	return sb.String()
}

// safeURL keeps http, https and relative file links.
func safeURL(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(lower, ':'); i >= 0 && !strings.ContainsAny(lower[:i], "/?#") {
		if scheme := lower[:i]; scheme != "http" && scheme != "https" {
			return "#"
		}
	}
	return raw
}

// =============================================================================
// EMBEDDED CSS AND SCRIPT
// =============================================================================

const htmlCSS = `    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        :root {
            --font-sans: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
            --font-mono: "SF Mono", Monaco, "Fira Code", "Source Code Pro", monospace;
        }
        .light-theme {
            --bg: #f5f7fa; --surface: #ffffff; --text: #1f2933; --muted: #6b7280;
            --user-bg: #0f766e; --user-fg: #ffffff; --assistant-bg: #ffffff;
            --code-bg: #1e1e2e; --code-fg: #e0e0e0; --border: #e5e7eb; --accent: #0f766e;
        }
        .dark-theme {
            --bg: #111318; --surface: #1b1e25; --text: #e5e7eb; --muted: #9ca3af;
            --user-bg: #14b8a6; --user-fg: #0b0c0f; --assistant-bg: #1b1e25;
            --code-bg: #0b0c0f; --code-fg: #e5e7eb; --border: #2a2f3a; --accent: #2dd4bf;
        }
        body { font-family: var(--font-sans); background: var(--bg); color: var(--text); line-height: 1.6; }
        .chat-container { max-width: 860px; margin: 0 auto; padding: 24px; }
        .chat-header { display: flex; justify-content: space-between; align-items: baseline; margin-bottom: 24px; }
        .chat-header span, time { color: var(--muted); font-size: 0.85em; }
        .message { padding: 12px 16px; margin-bottom: 16px; border-radius: 12px; border: 1px solid var(--border); }
        .user-message { background: var(--user-bg); color: var(--user-fg); margin-left: 20%; }
        .assistant-message { background: var(--assistant-bg); margin-right: 20%; }
        .role-label { font-weight: 600; margin-right: 8px; }
        .inline-code { font-family: var(--font-mono); background: rgba(127,127,127,0.15); padding: 1px 4px; border-radius: 4px; }
        .code-block-wrapper { margin: 8px 0; border-radius: 8px; overflow: hidden; background: var(--code-bg); color: var(--code-fg); }
        .code-block-header { display: flex; justify-content: space-between; padding: 4px 12px; font-size: 0.8em; opacity: 0.8; }
        .copy-button { background: none; border: 1px solid currentColor; color: inherit; border-radius: 4px; padding: 0 6px; cursor: pointer; }
        .code-block-content { font-family: var(--font-mono); padding: 12px; overflow-x: auto; }
        a { color: var(--accent); }
        .files-container { margin-top: 12px; }
        .files-header { font-weight: 600; color: var(--accent); }
        .file-list { list-style: none; }
        .file-type { color: var(--muted); font-size: 0.8em; }
    </style>
`

const htmlScript = `    <script>
        document.addEventListener('click', function (ev) {
            var btn = ev.target.closest('.copy-button');
            if (!btn) { return; }
            var target = btn.closest('.code-block-wrapper').querySelector('.code-block-content');
            if (target && navigator.clipboard) {
                navigator.clipboard.writeText(target.textContent).then(function () {
                    var label = btn.textContent;
                    btn.textContent = '✓';
                    setTimeout(function () { btn.textContent = label; }, 2000);
                });
            }
        });
    </script>
`
