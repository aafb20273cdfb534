// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// AttachmentType is the declared kind of an attachment. Only "image" has
// special meaning; everything else is treated as text-like.
type AttachmentType string

const (
	AttachmentImage AttachmentType = "image"
	AttachmentText  AttachmentType = "text"
)

// Attachment is a named, typed, remotely located file referenced by an
// assistant message.
type Attachment struct {
	Name string         `json:"name"`
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"`
}

// IsImage reports whether the attachment is displayed as an image.
func (a Attachment) IsImage() bool {
	return a.Type == AttachmentImage
}

// TypeLabel returns the declared type, or "text" when none was given.
func (a Attachment) TypeLabel() string {
	if a.Type == "" {
		return string(AttachmentText)
	}
	return string(a.Type)
}
