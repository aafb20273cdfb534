// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/guard"
	"github.com/jeranaias/sopchat/internal/input"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/markdown"
	"github.com/jeranaias/sopchat/internal/model"
)

// =============================================================================
// VIEWER
// =============================================================================

// Result is a finished text load, tagged with the generation that asked for it.
type Result struct {
	Generation uint64
	Session    Session
}

// Load performs the blocking part of an open. It never fails; failures come
// back as error sessions.
type Load func(ctx context.Context) Result

// Config wires a Viewer to its collaborators.
type Config struct {
	Fetcher Fetcher
	Guard   *guard.Guard
	// App is the application-wide input bus the guard intercepts keys on.
	App     *input.Bus
	Printer *locale.Printer
	Logger  zerolog.Logger
}

// Viewer owns the single viewer slot. It is used from the UI goroutine; Load
// funcs may run anywhere.
type Viewer struct {
	cfg     Config
	gen     uint64
	current *Handle
	log     zerolog.Logger
}

// New returns an empty viewer.
func New(cfg Config) *Viewer {
	if cfg.App == nil {
		cfg.App = input.NewBus()
	}
	if cfg.Printer == nil {
		cfg.Printer = locale.New("")
	}
	if cfg.Guard == nil {
		cfg.Guard = guard.New(0, nil, cfg.Logger)
	}
	return &Viewer{cfg: cfg, log: cfg.Logger.With().Str("component", "viewer").Logger()}
}

// Open shows att, closing whatever was open. Images are ready at once and
// Load is nil. Text-like files start loading and the caller runs Load.
func (v *Viewer) Open(att model.Attachment) (*Handle, Load) {
	if v.current != nil {
		v.current.Close()
	}

	v.gen++
	h := &Handle{
		viewer:  v,
		gen:     v.gen,
		file:    att,
		surface: input.NewBus(),
	}
	h.releaseGuard = v.cfg.Guard.Arm(v.cfg.App, h.surface)
	v.current = h
	v.log.Info().Uint64("generation", h.gen).Str("name", att.Name).Str("type", att.TypeLabel()).Msg("open")

	if att.IsImage() {
		h.session = &Session{Kind: KindImage, Payload: att.URL, Name: att.Name}
		return h, nil
	}

	gen, fetcher, p := h.gen, v.cfg.Fetcher, v.cfg.Printer
	return h, func(ctx context.Context) Result {
		return Result{Generation: gen, Session: loadText(ctx, fetcher, p, att)}
	}
}

// Resolve installs a finished load if it belongs to the open viewer.
func (v *Viewer) Resolve(res Result) bool {
	if v.current == nil || v.current.gen != res.Generation {
		v.log.Warn().Uint64("generation", res.Generation).Uint64("current", v.gen).Msg("stale load dropped")
		return false
	}
	s := res.Session
	v.current.session = &s
	return true
}

// Current returns the open handle, or nil.
func (v *Viewer) Current() *Handle { return v.current }

// App is the application-level bus the guard listens on.
func (v *Viewer) App() *input.Bus { return v.cfg.App }

// Guard returns the capture guard used by this viewer.
func (v *Viewer) Guard() *guard.Guard { return v.cfg.Guard }

// Generation returns the generation of the latest open.
func (v *Viewer) Generation() uint64 { return v.gen }

func loadText(ctx context.Context, fetcher Fetcher, p *locale.Printer, att model.Attachment) Session {
	fail := func(detail string) Session {
		return Session{Kind: KindError, Payload: p.T(locale.LoadFailed, detail), Name: att.Name}
	}
	if fetcher == nil {
		return fail("no fetcher")
	}
	body, err := fetcher.Fetch(ctx, att.URL)
	if err != nil {
		return fail(err.Error())
	}
	if mime, binary := sniffBinary(body); binary {
		return fail(p.T(locale.BinaryContent, mime))
	}
	return Session{Kind: KindText, Payload: markdown.Escape(string(body)), Name: att.Name, Size: int64(len(body))}
}

// sniffBinary reports non-text bodies and their detected type.
func sniffBinary(body []byte) (string, bool) {
	kind, _ := filetype.Match(body)
	if kind != filetype.Unknown {
		return kind.MIME.Value, true
	}
	if !utf8.Valid(body) {
		return "application/octet-stream", true
	}
	return "", false
}

// =============================================================================
// HANDLE
// =============================================================================

// Handle is one open viewer.
type Handle struct {
	viewer       *Viewer
	gen          uint64
	file         model.Attachment
	session      *Session
	surface      *input.Bus
	releaseGuard func()
	once         sync.Once
	closed       bool
}

// Session returns the displayed session; ok is false while text is loading.
func (h *Handle) Session() (s Session, ok bool) {
	if h.session == nil {
		return Session{}, false
	}
	return *h.session, true
}

// Attachment returns the file being shown.
func (h *Handle) Attachment() model.Attachment { return h.file }

// Generation returns the generation this handle was opened with.
func (h *Handle) Generation() uint64 { return h.gen }

// Surface is the input bus scoped to the viewer content.
func (h *Handle) Surface() *input.Bus { return h.surface }

// Closed reports whether Close ran.
func (h *Handle) Closed() bool { return h.closed }

// Close destroys the session and releases every listener the open installed.
// Calling it again, from any close path, does nothing.
func (h *Handle) Close() {
	h.once.Do(func() {
		h.releaseGuard()
		h.session = nil
		h.closed = true
		if h.viewer.current == h {
			h.viewer.current = nil
		}
		h.viewer.log.Info().Uint64("generation", h.gen).Str("name", h.file.Name).Msg("close")
	})
}
