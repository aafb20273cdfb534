// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package input routes key and pointer events to interceptors before the
// regular chat key handling sees them.
//
// An interceptor that reports the event as handled stops dispatch, which is
// how a default action is suppressed. Every Subscribe returns a release func;
// calling it more than once is harmless.
package input

import (
	"sort"
	"sync"
)

// Kind distinguishes event sources.
type Kind int

const (
	KindKey Kind = iota
	KindContextMenu
)

// Event is a normalized input event.
type Event struct {
	Kind Kind
	// Key is the bubbletea key string ("ctrl+p", "S", "printscreen").
	Key string
	// Ctrl, Alt, Shift are set when the terminal reports the modifier.
	Ctrl, Alt, Shift bool
}

// Handler inspects an event and reports whether it consumed it.
type Handler func(Event) bool

// Bus is a registry of interceptors. Later subscribers run first.
type Bus struct {
	mu       sync.Mutex
	next     uint64
	handlers map[uint64]Handler
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[uint64]Handler)}
}

// Subscribe registers h and returns its release func.
func (b *Bus) Subscribe(h Handler) (release func()) {
	b.mu.Lock()
	b.next++
	id := b.next
	b.handlers[id] = h
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

// Dispatch offers ev to each interceptor, newest first, until one handles it.
func (b *Bus) Dispatch(ev Event) bool {
	for _, h := range b.snapshot() {
		if h(ev) {
			return true
		}
	}
	return false
}

// Len returns the number of registered interceptors.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

func (b *Bus) snapshot() []Handler {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]uint64, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	out := make([]Handler, len(ids))
	for i, id := range ids {
		out[i] = b.handlers[id]
	}
	return out
}
