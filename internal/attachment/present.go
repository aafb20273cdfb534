// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import (
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
)

// Icons shown on cards.
const (
	IconChecking = "⏳"
	IconImage    = "🖼️"
	IconDocument = "📝"
	IconFailed   = "❌"
)

// Presentation is how a card looks for a given state.
type Presentation struct {
	Icon  string
	Label string
	// Class names the visual variant, e.g. "state-checking" or
	// "file-type-image".
	Class string
}

// Present maps a card state to its presentation. It depends on nothing but
// its arguments.
func Present(p *locale.Printer, state State, file model.Attachment) Presentation {
	switch state {
	case StateAvailable:
		icon := IconDocument
		if file.IsImage() {
			icon = IconImage
		}
		return Presentation{Icon: icon, Label: file.TypeLabel(), Class: "file-type-" + file.TypeLabel()}
	case StateUnavailable:
		return Presentation{Icon: IconFailed, Label: p.T(locale.Unavailable), Class: "state-unavailable"}
	case StateError:
		return Presentation{Icon: IconFailed, Label: p.T(locale.VerifyError), Class: "state-error"}
	default:
		return Presentation{Icon: IconChecking, Label: p.T(locale.Verifying), Class: "state-checking"}
	}
}

// SizeLabel renders an advertised size such as "1.2 MB", or "" when unknown.
func SizeLabel(size int64) string {
	if size < 0 {
		return ""
	}
	return humanize.Bytes(uint64(size))
}
