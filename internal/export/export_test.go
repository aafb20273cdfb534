// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
)

var stamp = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func transcript() *Transcript {
	return &Transcript{
		Title:    "SOP <Cuci> Tangan",
		Exported: stamp,
		Messages: []model.Message{
			model.NewMessage(model.RoleUser, "bagaimana <script>?", nil, stamp),
			model.NewMessage(model.RoleAssistant, "**Langkah**\n```go\nx := 1\n```", &model.Metadata{Files: []model.Attachment{
				{Name: "sop.txt", Type: model.AttachmentText, URL: "http://x/sop.txt"},
				{Name: "evil", Type: model.AttachmentImage, URL: "javascript:alert(1)"},
			}}, stamp),
		},
	}
}

func opts() *Options {
	return &Options{IncludeTimestamps: true, Printer: locale.New("id")}
}

// =============================================================================
// HTML TESTS
// =============================================================================

func TestHTMLExport_EmbedsRenderedMarkup(t *testing.T) {
	out, err := NewHTMLExporter(opts()).Export(transcript())
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>SOP &lt;Cuci&gt; Tangan</title>")
	assert.Contains(t, page, "bagaimana &lt;script&gt;?")
	assert.NotContains(t, page, "<script>?")
	assert.Contains(t, page, "<strong>Langkah</strong>")
	assert.Contains(t, page, `data-copy-target="code-block-1"`)
	assert.Contains(t, page, "Dokumen SOP")
	assert.Contains(t, page, `href="http://x/sop.txt"`)
	assert.NotContains(t, page, "javascript:alert")
	assert.Contains(t, page, "2025-03-01 09:30:00")
	assert.Contains(t, page, `lang="id"`)
}

func TestHTMLExport_EmptyTranscript(t *testing.T) {
	_, err := NewHTMLExporter(nil).Export(&Transcript{})
	assert.ErrorIs(t, err, ErrEmpty)
}

// =============================================================================
// MARKDOWN TESTS
// =============================================================================

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(opts()).Export(transcript())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "---\ntitle: \"SOP <Cuci> Tangan\"\n"))
	assert.Contains(t, doc, "### Anda <sub>2025-03-01 09:30:00</sub>")
	assert.Contains(t, doc, "```go\nx := 1\n```")
	assert.Contains(t, doc, "- [sop.txt](http://x/sop.txt) (text)")
	assert.Contains(t, doc, "- [evil](#) (image)")
}

func TestEscapeYAML_NoInjection(t *testing.T) {
	assert.Equal(t, `"a\nb: c"`, escapeYAML("a\nb: c"))
}

// =============================================================================
// JSON TESTS
// =============================================================================

func TestJSONExport_MessagesMatchSnapshotShape(t *testing.T) {
	tr := transcript()
	out, err := NewJSONExporter(nil).Export(tr)
	require.NoError(t, err)

	var got struct {
		Title    string          `json:"title"`
		Messages []model.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, tr.Title, got.Title)
	require.Len(t, got.Messages, 2)
	assert.True(t, tr.Messages[1].Equal(got.Messages[1]))
}

// =============================================================================
// FILE TESTS
// =============================================================================

func TestForFormat(t *testing.T) {
	for _, f := range Formats {
		e, err := ForFormat(f, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, e.FileExtension())
	}
	_, err := ForFormat("pdf", nil)
	assert.Error(t, err)
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	o := opts()
	o.OutputDir = filepath.Join(dir, "out")

	path, err := ExportToFile(transcript(), NewMarkdownExporter(o), o)
	require.NoError(t, err)
	assert.Equal(t, "SOP_-Cuci-_Tangan_20250301_093000.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Langkah")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "sopchat", sanitizeFilename(""))
	assert.Equal(t, "a-b_c", sanitizeFilename("a/b c"))
	assert.Len(t, []rune(sanitizeFilename(strings.Repeat("x", 80))), 50)
}
