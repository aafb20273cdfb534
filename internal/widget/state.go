// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package widget holds the chat application state.
//
// State is the only owner of the history, the loading flag, the attachment
// galleries and the viewer slot. Every change goes through one of its
// methods, so "one viewer at a time" and "a card settles once" are enforced
// here rather than by callers.
package widget

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/storage"
	"github.com/jeranaias/sopchat/internal/viewer"
)

// ErrNotReady is returned by appends before Init.
var ErrNotReady = errors.New("widget: not initialized")

// Probe is one availability check to run. Epoch ties it to the history it
// was queued for; a clear starts a new epoch.
type Probe struct {
	Epoch   uint64
	Message int
	Card    int
	URL     string
}

// Config wires a State.
type Config struct {
	Store   *storage.Store
	Viewer  *viewer.Viewer
	Printer *locale.Printer
	// Welcome overrides the localized greeting.
	Welcome string
	Logger  zerolog.Logger
}

// State is mutated from the UI goroutine only.
type State struct {
	store   *storage.Store
	viewer  *viewer.Viewer
	printer *locale.Printer
	welcome string
	log     zerolog.Logger

	ready     bool
	loading   bool
	epoch     uint64
	galleries map[int]*attachment.Gallery
	probes    []Probe
}

// New returns an uninitialized State.
func New(cfg Config) *State {
	if cfg.Printer == nil {
		cfg.Printer = locale.New("")
	}
	if cfg.Viewer == nil {
		cfg.Viewer = viewer.New(viewer.Config{Printer: cfg.Printer, Logger: cfg.Logger})
	}
	return &State{
		store:     cfg.Store,
		viewer:    cfg.Viewer,
		printer:   cfg.Printer,
		welcome:   cfg.Welcome,
		log:       cfg.Logger.With().Str("component", "widget").Logger(),
		galleries: make(map[int]*attachment.Gallery),
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Init restores history, greets on an empty history and builds galleries
// for restored messages with files. Input stays disabled until it returns.
func (s *State) Init() error {
	msgs := s.store.Restore()

	var persistErr error
	if len(msgs) == 0 {
		welcome := s.welcome
		if strings.TrimSpace(welcome) == "" {
			welcome = s.printer.T(locale.Welcome)
		}
		msg, err := s.store.Append(model.RoleAssistant, welcome, nil)
		if err != nil {
			persistErr = err
		}
		msgs = append(msgs, msg)
	}

	for i, m := range msgs {
		s.ensureGallery(i, m)
	}
	s.ready = true
	return persistErr
}

// Ready reports whether Init has run.
func (s *State) Ready() bool { return s.ready }

// =============================================================================
// MESSAGES
// =============================================================================

// Messages returns a copy of the history.
func (s *State) Messages() []model.Message { return s.store.Messages() }

// AppendUser records a user turn. A persistence error is returned with the
// message, which is kept in memory.
func (s *State) AppendUser(text string) (model.Message, error) {
	if !s.ready {
		return model.Message{}, ErrNotReady
	}
	return s.store.Append(model.RoleUser, text, nil)
}

// AppendAssistant records an assistant turn and, when it carries files,
// creates its gallery and queues one probe per file.
func (s *State) AppendAssistant(content string, meta *model.Metadata) (model.Message, error) {
	if !s.ready {
		return model.Message{}, ErrNotReady
	}
	msg, err := s.store.Append(model.RoleAssistant, content, meta)
	s.ensureGallery(s.store.Len()-1, msg)
	return msg, err
}

// AppendBackendError records the localized failure reply.
func (s *State) AppendBackendError() (model.Message, error) {
	return s.AppendAssistant(s.printer.T(locale.BackendError), nil)
}

// ClearHistory empties the conversation and greets again.
func (s *State) ClearHistory() error {
	s.CloseViewer()
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.epoch++
	s.galleries = make(map[int]*attachment.Gallery)
	s.probes = nil
	s.ready = false
	return s.Init()
}

// =============================================================================
// SUBMIT GATING
// =============================================================================

// SetLoading marks a backend request as in flight or finished.
func (s *State) SetLoading(loading bool) { s.loading = loading }

// Loading reports whether a request is in flight.
func (s *State) Loading() bool { return s.loading }

// CanSubmit is false before Init, while loading, and for blank input.
func (s *State) CanSubmit(input string) bool {
	return s.ready && !s.loading && strings.TrimSpace(input) != ""
}

// SubmitLabel is the localized label of the submit affordance.
func (s *State) SubmitLabel() string {
	if s.loading {
		return s.printer.T(locale.Sending)
	}
	return s.printer.T(locale.Send)
}

// =============================================================================
// GALLERIES
// =============================================================================

func (s *State) ensureGallery(index int, msg model.Message) {
	if msg.Role != model.RoleAssistant || !msg.HasFiles() {
		return
	}
	if _, ok := s.galleries[index]; ok {
		return
	}
	g := attachment.NewGallery(msg.Files())
	s.galleries[index] = g
	for _, c := range g.Cards() {
		s.probes = append(s.probes, Probe{Epoch: s.epoch, Message: index, Card: c.Index, URL: c.File.URL})
	}
}

// Gallery returns the gallery of message index, or nil.
func (s *State) Gallery(index int) *attachment.Gallery { return s.galleries[index] }

// Galleries returns the galleries keyed by message index.
func (s *State) Galleries() map[int]*attachment.Gallery {
	out := make(map[int]*attachment.Gallery, len(s.galleries))
	for k, v := range s.galleries {
		out[k] = v
	}
	return out
}

// TakeProbes returns probes queued since the last call.
func (s *State) TakeProbes() []Probe {
	p := s.probes
	s.probes = nil
	return p
}

// Epoch counts history clears.
func (s *State) Epoch() uint64 { return s.epoch }

// SettleCard applies a probe result to exactly one card. Results queued
// before a clear are dropped even when a new message now sits at msgIndex.
func (s *State) SettleCard(epoch uint64, msgIndex, card int, res attachment.Result) bool {
	if epoch != s.epoch {
		s.log.Debug().Uint64("epoch", epoch).Uint64("current", s.epoch).
			Int("message", msgIndex).Int("card", card).Msg("stale probe dropped")
		return false
	}
	g := s.galleries[msgIndex]
	if g == nil {
		return false
	}
	return g.Settle(card, res)
}

// =============================================================================
// VIEWER
// =============================================================================

// OpenViewer shows att, replacing any open viewer.
func (s *State) OpenViewer(att model.Attachment) (*viewer.Handle, viewer.Load) {
	return s.viewer.Open(att)
}

// CloseViewer closes the open viewer, if any.
func (s *State) CloseViewer() {
	if h := s.viewer.Current(); h != nil {
		h.Close()
	}
}

// ResolveViewer installs a text load if it is still wanted.
func (s *State) ResolveViewer(res viewer.Result) bool {
	return s.viewer.Resolve(res)
}

// Viewer exposes the viewer for rendering.
func (s *State) Viewer() *viewer.Viewer { return s.viewer }

// Printer returns the localizer.
func (s *State) Printer() *locale.Printer { return s.printer }
