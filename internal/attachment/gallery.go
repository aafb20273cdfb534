// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

import "github.com/jeranaias/sopchat/internal/model"

// Card is one attachment slot in a Gallery.
type Card struct {
	Index  int
	File   model.Attachment
	State  State
	Result Result
}

// Gallery is an arena of cards addressed by position. The cards are created
// in attachment-list order and never move.
type Gallery struct {
	cards []Card
}

// NewGallery creates one checking card per file.
func NewGallery(files []model.Attachment) *Gallery {
	g := &Gallery{cards: make([]Card, len(files))}
	for i, f := range files {
		g.cards[i] = Card{Index: i, File: f, State: StateChecking, Result: Result{Size: -1}}
	}
	return g
}

// Len returns the number of cards.
func (g *Gallery) Len() int { return len(g.cards) }

// Card returns the card at index.
func (g *Gallery) Card(index int) (Card, bool) {
	if index < 0 || index >= len(g.cards) {
		return Card{}, false
	}
	return g.cards[index], true
}

// Cards returns a copy of all cards in order.
func (g *Gallery) Cards() []Card {
	out := make([]Card, len(g.cards))
	copy(out, g.cards)
	return out
}

// Settle moves the card at index from checking to res.State. It returns
// false, changing nothing, when the index is out of range, the card already
// settled, or res is not terminal.
func (g *Gallery) Settle(index int, res Result) bool {
	if index < 0 || index >= len(g.cards) || !res.State.Terminal() {
		return false
	}
	c := &g.cards[index]
	if c.State != StateChecking {
		return false
	}
	c.State = res.State
	c.Result = res
	return true
}

// Pending returns the cards still checking.
func (g *Gallery) Pending() []Card {
	var out []Card
	for _, c := range g.cards {
		if c.State == StateChecking {
			out = append(out, c)
		}
	}
	return out
}

// Done reports whether every card has settled.
func (g *Gallery) Done() bool {
	return len(g.Pending()) == 0
}
