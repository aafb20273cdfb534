// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_SubscribeAndRelease(t *testing.T) {
	b := NewBus()
	calls := 0
	release := b.Subscribe(func(Event) bool { calls++; return true })
	assert.Equal(t, 1, b.Len())

	assert.True(t, b.Dispatch(Event{Key: "x"}))
	assert.Equal(t, 1, calls)

	release()
	release()
	assert.Equal(t, 0, b.Len())
	assert.False(t, b.Dispatch(Event{Key: "x"}))
	assert.Equal(t, 1, calls)
}

func TestBus_NewestFirstAndStopOnHandled(t *testing.T) {
	b := NewBus()
	var order []string
	b.Subscribe(func(Event) bool { order = append(order, "old"); return false })
	b.Subscribe(func(ev Event) bool { order = append(order, "new"); return ev.Key == "stop" })

	assert.False(t, b.Dispatch(Event{Key: "go"}))
	assert.Equal(t, []string{"new", "old"}, order)

	order = nil
	assert.True(t, b.Dispatch(Event{Key: "stop"}))
	assert.Equal(t, []string{"new"}, order)
}

func TestBus_ReleaseOnlyOwnHandler(t *testing.T) {
	b := NewBus()
	r1 := b.Subscribe(func(Event) bool { return false })
	b.Subscribe(func(Event) bool { return false })
	r1()
	r1()
	assert.Equal(t, 1, b.Len())
}

func TestBus_HandlerMayReleaseDuringDispatch(t *testing.T) {
	b := NewBus()
	var release func()
	release = b.Subscribe(func(Event) bool { release(); return true })
	assert.True(t, b.Dispatch(Event{}))
	assert.Equal(t, 0, b.Len())
}
