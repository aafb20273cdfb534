// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard discourages capturing an open attachment.
//
// While a viewer is open the guard intercepts the print, screenshot and save
// chords plus the context menu on the viewer surface, swallows them and shows
// a warning for a fixed time. This is advisory only; nothing stops an OS
// level screenshot.
package guard

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/input"
)

// DefaultWarningDuration is how long the warning stays up.
const DefaultWarningDuration = 3 * time.Second

// DefaultTriggerKeys are the bubbletea key strings that raise the warning.
// Terminals report ctrl+shift+s as ctrl+s and meta+shift+s as alt+S.
var DefaultTriggerKeys = []string{"printscreen", "ctrl+p", "ctrl+s", "alt+S"}

// Status is the guard state.
type Status int

const (
	Disarmed Status = iota
	Armed
	WarningShown
)

func (s Status) String() string {
	switch s {
	case Armed:
		return "armed"
	case WarningShown:
		return "warning-shown"
	default:
		return "disarmed"
	}
}

// Expiry schedules the end of a warning. Only the expiry carrying the latest
// Seq has any effect.
type Expiry struct {
	Seq   uint64
	After time.Duration
}

// Guard is driven from the UI goroutine only.
type Guard struct {
	status   Status
	seq      uint64
	duration time.Duration
	triggers map[string]bool
	pending  *Expiry
	log      zerolog.Logger
}

// New builds a disarmed guard. extraKeys are added to DefaultTriggerKeys.
func New(duration time.Duration, extraKeys []string, log zerolog.Logger) *Guard {
	if duration <= 0 {
		duration = DefaultWarningDuration
	}
	triggers := make(map[string]bool, len(DefaultTriggerKeys)+len(extraKeys))
	for _, k := range DefaultTriggerKeys {
		triggers[k] = true
	}
	for _, k := range extraKeys {
		if k = strings.TrimSpace(k); k != "" {
			triggers[k] = true
		}
	}
	return &Guard{
		duration: duration,
		triggers: triggers,
		log:      log.With().Str("component", "guard").Logger(),
	}
}

// Arm installs a key interceptor on app and a context-menu interceptor on
// surface. The returned release removes both, disarms the guard and drops
// any visible warning; extra calls do nothing.
func (g *Guard) Arm(app, surface *input.Bus) (release func()) {
	g.status = Armed
	g.pending = nil

	releaseKeys := app.Subscribe(func(ev input.Event) bool {
		if ev.Kind != input.KindKey || !g.matches(ev) {
			return false
		}
		g.trigger("key", ev.Key)
		return true
	})
	releaseMenu := surface.Subscribe(func(ev input.Event) bool {
		if ev.Kind != input.KindContextMenu {
			return false
		}
		g.trigger("context-menu", "")
		return true
	})

	done := false
	return func() {
		if done {
			return
		}
		done = true
		releaseKeys()
		releaseMenu()
		g.status = Disarmed
		g.seq++
		g.pending = nil
	}
}

// IsTrigger reports whether key raises the warning.
func (g *Guard) IsTrigger(key string) bool {
	return g.triggers[key]
}

// matches checks the trigger list, then the save chord: s with shift plus
// ctrl or meta, whatever name the terminal gave the key.
func (g *Guard) matches(ev input.Event) bool {
	if g.IsTrigger(ev.Key) {
		return true
	}
	base := ev.Key[strings.LastIndexByte(ev.Key, '+')+1:]
	return ev.Shift && (ev.Ctrl || ev.Alt) && strings.EqualFold(base, "s")
}

func (g *Guard) trigger(source, key string) {
	if g.status == Disarmed {
		return
	}
	g.status = WarningShown
	g.seq++
	g.pending = &Expiry{Seq: g.seq, After: g.duration}
	g.log.Warn().Str("source", source).Str("key", key).Uint64("seq", g.seq).Msg("capture attempt blocked")
}

// TakeExpiry returns the expiry scheduled by the latest trigger, once.
func (g *Guard) TakeExpiry() (Expiry, bool) {
	if g.pending == nil {
		return Expiry{}, false
	}
	e := *g.pending
	g.pending = nil
	return e, true
}

// Expire hides the warning if seq belongs to the latest trigger.
func (g *Guard) Expire(seq uint64) bool {
	if g.status != WarningShown || seq != g.seq {
		return false
	}
	g.status = Armed
	return true
}

// Status returns the current state.
func (g *Guard) Status() Status { return g.status }

// WarningVisible reports whether the banner should be drawn.
func (g *Guard) WarningVisible() bool { return g.status == WarningShown }

// Duration returns the warning duration.
func (g *Guard) Duration() time.Duration { return g.duration }
