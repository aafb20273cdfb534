// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sopchat/internal/guard"
	"github.com/jeranaias/sopchat/internal/input"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
)

var (
	imageFile = model.Attachment{Name: "alur.png", Type: model.AttachmentImage, URL: "http://x/alur.png"}
	textFile  = model.Attachment{Name: "sop.txt", Type: model.AttachmentText, URL: "http://x/sop.txt"}
)

type fixture struct {
	v   *Viewer
	app *input.Bus
	g   *guard.Guard
}

func newFixture(f Fetcher) fixture {
	app := input.NewBus()
	g := guard.New(0, nil, zerolog.Nop())
	v := New(Config{Fetcher: f, Guard: g, App: app, Printer: locale.New("id"), Logger: zerolog.Nop()})
	return fixture{v: v, app: app, g: g}
}

func body(s string) Fetcher {
	return FetcherFunc(func(context.Context, string) ([]byte, error) { return []byte(s), nil })
}

// =============================================================================
// OPEN TESTS
// =============================================================================

func TestOpen_ImageIsImmediate(t *testing.T) {
	f := newFixture(nil)
	h, load := f.v.Open(imageFile)

	assert.Nil(t, load)
	s, ok := h.Session()
	require.True(t, ok)
	assert.Equal(t, KindImage, s.Kind)
	assert.Equal(t, imageFile.URL, s.Payload)
	assert.Equal(t, guard.Armed, f.g.Status())
}

func TestOpen_TextLoadsEscapedBody(t *testing.T) {
	f := newFixture(body("langkah 1 <b>cuci tangan</b>"))
	h, load := f.v.Open(textFile)
	require.NotNil(t, load)

	_, ok := h.Session()
	assert.False(t, ok, "text session is empty while loading")

	require.True(t, f.v.Resolve(load(context.Background())))
	s, ok := h.Session()
	require.True(t, ok)
	assert.Equal(t, KindText, s.Kind)
	assert.Equal(t, "langkah 1 &lt;b&gt;cuci tangan&lt;/b&gt;", s.Payload)
	assert.Contains(t, s.Markup(), `<pre class="file-viewer-text-content">`)
}

func TestOpen_TextFetchFailureIsErrorSession(t *testing.T) {
	f := newFixture(FetcherFunc(func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}))
	h, load := f.v.Open(textFile)
	require.True(t, f.v.Resolve(load(context.Background())))

	s, ok := h.Session()
	require.True(t, ok)
	assert.Equal(t, KindError, s.Kind)
	assert.Equal(t, "Gagal memuat file: connection refused", s.Payload)
}

func TestOpen_BinaryBodyIsErrorSession(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	f := newFixture(FetcherFunc(func(context.Context, string) ([]byte, error) { return png, nil }))
	h, load := f.v.Open(textFile)
	f.v.Resolve(load(context.Background()))

	s, _ := h.Session()
	assert.Equal(t, KindError, s.Kind)
	assert.Contains(t, s.Payload, "image/png")
}

func TestOpen_ReplacesPriorSession(t *testing.T) {
	f := newFixture(body("x"))
	first, _ := f.v.Open(imageFile)
	second, _ := f.v.Open(imageFile)

	assert.True(t, first.Closed())
	assert.False(t, second.Closed())
	assert.Same(t, second, f.v.Current())
	assert.Equal(t, 1, f.app.Len(), "only the live session keeps a key interceptor")
}

// =============================================================================
// STALE RESULT TESTS
// =============================================================================

func TestResolve_DropsResultAfterClose(t *testing.T) {
	f := newFixture(body("late"))
	h, load := f.v.Open(textFile)
	h.Close()

	assert.False(t, f.v.Resolve(load(context.Background())))
	assert.Nil(t, f.v.Current())
}

func TestResolve_DropsResultFromReplacedViewer(t *testing.T) {
	f := newFixture(body("content"))
	_, loadA := f.v.Open(textFile)
	hB, _ := f.v.Open(imageFile)

	assert.False(t, f.v.Resolve(loadA(context.Background())))
	s, ok := hB.Session()
	require.True(t, ok)
	assert.Equal(t, KindImage, s.Kind)
}

// =============================================================================
// CLOSE TESTS
// =============================================================================

func TestClose_IsIdempotentAndReleasesGuard(t *testing.T) {
	f := newFixture(nil)
	h, _ := f.v.Open(imageFile)
	require.Equal(t, 1, f.app.Len())
	require.Equal(t, 1, h.Surface().Len())

	// Explicit close then backdrop close.
	h.Close()
	h.Close()

	assert.Equal(t, 0, f.app.Len())
	assert.Equal(t, 0, h.Surface().Len())
	assert.Equal(t, guard.Disarmed, f.g.Status())
	assert.Nil(t, f.v.Current())
	_, ok := h.Session()
	assert.False(t, ok)

	// The print key no longer reaches the guard.
	assert.False(t, f.app.Dispatch(input.Event{Kind: input.KindKey, Key: "printscreen"}))
	assert.False(t, f.g.WarningVisible())
}

func TestClose_OldHandleDoesNotCloseNewOne(t *testing.T) {
	f := newFixture(nil)
	old, _ := f.v.Open(imageFile)
	current, _ := f.v.Open(imageFile)

	old.Close()
	assert.Same(t, current, f.v.Current())
	assert.Equal(t, guard.Armed, f.g.Status())
}

// =============================================================================
// FETCHER TESTS
// =============================================================================

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte("isi dokumen"))
		case "/big":
			w.Write([]byte(strings.Repeat("a", 100)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(time.Second, 50)
	ctx := context.Background()

	got, err := f.Fetch(ctx, srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "isi dokumen", string(got))

	_, err = f.Fetch(ctx, srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = f.Fetch(ctx, srv.URL+"/big")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSessionMarkup_EscapesError(t *testing.T) {
	s := Session{Kind: KindError, Payload: "Gagal memuat file: <x>"}
	assert.Equal(t, `<div class="file-viewer-error">Gagal memuat file: &lt;x&gt;</div>`, s.Markup())
}
