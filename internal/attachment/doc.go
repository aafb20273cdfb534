// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attachment tracks the files attached to assistant messages.
//
// Each file gets a Card in a Gallery. A card starts in StateChecking and is
// settled exactly once by the result of an availability probe. Probes finish
// in any order; Settle only ever touches the card it is addressed to.
// Verification is informational: a card can be opened in every state.
package attachment
