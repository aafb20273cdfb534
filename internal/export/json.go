// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/sopchat/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter writes the transcript with its messages in the same shape as
// the saved history, so an export can be fed back as a snapshot.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter. Options do not filter JSON
// output.
func NewJSONExporter(opts *Options) *JSONExporter {
	return &JSONExporter{options: fill(opts)}
}

type jsonTranscript struct {
	Title     string          `json:"title"`
	Exported  time.Time       `json:"exported"`
	Generator string          `json:"generator"`
	Messages  []model.Message `json:"messages"`
}

// Export renders t as indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(jsonTranscript{
		Title:     t.Title,
		Exported:  t.exportedAt(),
		Generator: "sopchat",
		Messages:  t.Messages,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string { return "application/json" }
