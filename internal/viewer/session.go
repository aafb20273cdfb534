// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"fmt"

	"github.com/jeranaias/sopchat/internal/markdown"
)

// Kind is what a session displays.
type Kind int

const (
	KindImage Kind = iota
	KindText
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindText:
		return "text"
	default:
		return "error"
	}
}

// Session is the content of the open viewer.
type Session struct {
	Kind Kind
	// Payload is the image URL, the escaped text body or the error message.
	Payload string
	Name    string
	// Size is the body length for text sessions.
	Size int64
}

// Markup renders the session as display markup.
func (s Session) Markup() string {
	switch s.Kind {
	case KindImage:
		return fmt.Sprintf(`<img src="%s" alt="%s" class="file-viewer-img">`,
			markdown.Escape(s.Payload), markdown.Escape(s.Name))
	case KindText:
		return `<pre class="file-viewer-text-content">` + s.Payload + `</pre>`
	default:
		return `<div class="file-viewer-error">` + markdown.Escape(s.Payload) + `</div>`
	}
}
