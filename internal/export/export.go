// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/util"
)

// ErrEmpty is returned for a transcript without messages.
var ErrEmpty = errors.New("export: transcript has no messages")

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Transcript is the conversation being exported.
type Transcript struct {
	Title    string
	Messages []model.Message
	// Exported stamps the output; zero means now.
	Exported time.Time
}

func (t *Transcript) validate() error {
	if t == nil || len(t.Messages) == 0 {
		return ErrEmpty
	}
	return nil
}

func (t *Transcript) exportedAt() time.Time {
	if t.Exported.IsZero() {
		return time.Now()
	}
	return t.Exported
}

// Exporter converts a transcript to one output format.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)
	FileExtension() string
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where ExportToFile writes (default: current directory).
	OutputDir string
	// IncludeTimestamps adds per-message times.
	IncludeTimestamps bool
	// Theme of the HTML page, "light" or "dark".
	Theme string
	// Printer localizes role labels and headings.
	Printer *locale.Printer
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
		Theme:             "light",
		Printer:           locale.New(""),
	}
}

func fill(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	if opts.Printer == nil {
		opts.Printer = locale.New("")
	}
	if opts.Theme == "" {
		opts.Theme = "light"
	}
	return opts
}

// Formats lists the names ForFormat accepts.
var Formats = []string{"html", "md", "json"}

// ForFormat returns the exporter for a format name.
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(format) {
	case "html":
		return NewHTMLExporter(opts), nil
	case "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(opts), nil
	}
	return nil, errors.Errorf("unknown export format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports t and writes it into opts.OutputDir. It returns the
// written path.
func ExportToFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	opts = fill(opts)

	content, err := exporter.Export(t)
	if err != nil {
		return "", errors.Wrap(err, "export failed")
	}

	filename := fmt.Sprintf("%s_%s%s",
		sanitizeFilename(t.Title),
		t.exportedAt().Format("20060102_150405"),
		exporter.FileExtension(),
	)
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output directory")
	}
	path := filepath.Join(opts.OutputDir, filename)
	if err := util.WriteFileAtomic(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in file names.
func sanitizeFilename(s string) string {
	const maxLen = 50
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "sopchat"
	}
	return b.String()
}

func roleLabel(p *locale.Printer, role model.Role) string {
	if role == model.RoleUser {
		return p.T(locale.RoleUser)
	}
	return p.T(locale.RoleAssistant)
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
