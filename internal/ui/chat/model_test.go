// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/backend"
	"github.com/jeranaias/sopchat/internal/guard"
	"github.com/jeranaias/sopchat/internal/input"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/storage"
	"github.com/jeranaias/sopchat/internal/ui/styles"
	"github.com/jeranaias/sopchat/internal/viewer"
	"github.com/jeranaias/sopchat/internal/widget"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fakeBackend struct {
	calls [][]model.Message
}

func (f *fakeBackend) Complete(_ context.Context, msgs []model.Message) (backend.Reply, error) {
	f.calls = append(f.calls, msgs)
	return backend.Reply{Content: "ok"}, nil
}

type harness struct {
	m       Model
	backend *fakeBackend
	app     *input.Bus
	guard   *guard.Guard
	state   *widget.State
	copied  []string
}

var sopFiles = &model.Metadata{Files: []model.Attachment{
	{Name: "alur.png", Type: model.AttachmentImage, URL: "http://x/alur.png"},
	{Name: "sop.txt", Type: model.AttachmentText, URL: "http://x/sop.txt"},
}}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{backend: &fakeBackend{}, app: input.NewBus()}
	p := locale.New("id")
	h.guard = guard.New(time.Second, nil, zerolog.Nop())
	v := viewer.New(viewer.Config{
		Fetcher: viewer.FetcherFunc(func(context.Context, string) ([]byte, error) {
			return []byte("langkah 1"), nil
		}),
		Guard:   h.guard,
		App:     h.app,
		Printer: p,
		Logger:  zerolog.Nop(),
	})
	h.state = widget.New(widget.Config{
		Store:   storage.NewStore(storage.NewMemoryKV(), "", zerolog.Nop()),
		Viewer:  v,
		Printer: p,
		Logger:  zerolog.Nop(),
	})
	h.m = New(Config{
		State:   h.state,
		Backend: h.backend,
		Verifier: attachment.VerifierFunc(func(context.Context, string) attachment.Result {
			return attachment.Result{State: attachment.StateAvailable, StatusCode: 200, Size: 10}
		}),
		Theme:  styles.NewTheme("dark"),
		Logger: zerolog.Nop(),
		Clipboard: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	h.send(initMsg{})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) typeText(s string) {
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) press(k tea.KeyType) tea.Cmd {
	return h.send(tea.KeyMsg{Type: k})
}

// collect runs cmd and flattens batches. Only use it on commands that do
// not sleep.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// =============================================================================
// INIT TESTS
// =============================================================================

func TestInit_InputDisabledUntilRestore(t *testing.T) {
	h := &harness{}
	h.state = widget.New(widget.Config{
		Store:  storage.NewStore(storage.NewMemoryKV(), "", zerolog.Nop()),
		Logger: zerolog.Nop(),
	})
	h.m = New(Config{State: h.state, Backend: &fakeBackend{}, Theme: styles.NewTheme("dark"), Logger: zerolog.Nop()})

	h.typeText("halo")
	assert.Empty(t, h.m.InputValue())

	h.send(initMsg{})
	require.Len(t, h.state.Messages(), 1)
	assert.Equal(t, locale.New("id").T(locale.Welcome), h.state.Messages()[0].Content)

	h.typeText("halo")
	assert.Equal(t, "halo", h.m.InputValue())
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_BlankIsSuppressed(t *testing.T) {
	h := newHarness(t)
	h.typeText("   ")
	assert.Nil(t, h.press(tea.KeyEnter))
	assert.False(t, h.state.Loading())
	assert.Len(t, h.state.Messages(), 1)
}

func TestSubmit_RoundTrip(t *testing.T) {
	h := newHarness(t)
	h.typeText("cara cuci tangan?")
	cmd := h.press(tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, h.state.Loading())
	assert.Empty(t, h.m.InputValue())

	h.typeText("lagi")
	h.press(tea.KeyEnter)
	assert.Len(t, h.state.Messages(), 2, "second submit suppressed while loading")

	var reply *ReplyMsg
	for _, msg := range collect(cmd) {
		if r, ok := msg.(ReplyMsg); ok {
			reply = &r
		}
	}
	require.NotNil(t, reply)
	require.Len(t, h.backend.calls, 1)
	assert.Equal(t, "cara cuci tangan?", h.backend.calls[0][1].Content)

	h.send(*reply)
	assert.False(t, h.state.Loading())
	msgs := h.state.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "ok", msgs[2].Content)
}

func TestReply_ErrorBecomesAssistantMessage(t *testing.T) {
	h := newHarness(t)
	h.state.SetLoading(true)
	h.send(ReplyMsg{Err: errors.New("connection refused")})

	msgs := h.state.Messages()
	assert.Equal(t, model.RoleAssistant, msgs[len(msgs)-1].Role)
	assert.Equal(t, locale.New("id").T(locale.BackendError), msgs[len(msgs)-1].Content)
	assert.False(t, h.state.Loading())
}

// =============================================================================
// ATTACHMENT TESTS
// =============================================================================

func TestReply_WithFilesProbesEachCard(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(ReplyMsg{Reply: backend.Reply{Content: "lihat dokumen", Metadata: sopFiles}})

	g := h.state.Gallery(1)
	require.NotNil(t, g)
	assert.Len(t, g.Pending(), 2)

	var probes int
	for _, msg := range collect(cmd) {
		if p, ok := msg.(ProbeResultMsg); ok {
			probes++
			assert.Equal(t, 1, p.Message)
			h.send(p)
		}
	}
	assert.Equal(t, 2, probes)
	assert.True(t, g.Done())
}

func TestProbeResult_OnlyTouchesItsCard(t *testing.T) {
	h := newHarness(t)
	h.send(ReplyMsg{Reply: backend.Reply{Content: "x", Metadata: sopFiles}})

	h.send(ProbeResultMsg{Message: 1, Card: 1, Result: attachment.Result{State: attachment.StateUnavailable, StatusCode: 404}})
	g := h.state.Gallery(1)
	first, _ := g.Card(0)
	second, _ := g.Card(1)
	assert.Equal(t, attachment.StateChecking, first.State)
	assert.Equal(t, attachment.StateUnavailable, second.State)
}

// =============================================================================
// VIEWER AND GUARD TESTS
// =============================================================================

func openFirstCard(t *testing.T, h *harness) {
	t.Helper()
	h.send(ReplyMsg{Reply: backend.Reply{Content: "x", Metadata: sopFiles}})
	h.press(tea.KeyTab)
	require.True(t, h.m.Focus().Active)
	assert.Nil(t, h.press(tea.KeyEnter), "images need no load")
	require.NotNil(t, h.state.Viewer().Current())
}

func TestViewer_TextLoadThroughCommand(t *testing.T) {
	h := newHarness(t)
	h.send(ReplyMsg{Reply: backend.Reply{Content: "x", Metadata: sopFiles}})
	h.press(tea.KeyTab)
	h.press(tea.KeyRight)
	cmd := h.press(tea.KeyEnter)
	require.NotNil(t, cmd)

	msgs := collect(cmd)
	require.Len(t, msgs, 1)
	h.send(msgs[0])
	s, ok := h.state.Viewer().Current().Session()
	require.True(t, ok)
	assert.Equal(t, viewer.KindText, s.Kind)
	assert.Contains(t, h.m.View(), "langkah 1")
}

func TestGuard_SuppressesTriggerWhileOpen(t *testing.T) {
	h := newHarness(t)
	openFirstCard(t, h)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.NotNil(t, cmd, "expiry is scheduled")
	assert.True(t, h.guard.WarningVisible())
	assert.Contains(t, h.m.View(), "Tangkapan layar")

	h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	h.send(GuardExpiredMsg{Seq: 1})
	assert.True(t, h.guard.WarningVisible(), "stale expiry ignored")
	h.send(GuardExpiredMsg{Seq: 2})
	assert.False(t, h.guard.WarningVisible())
}

func TestGuard_ReleasedOnClose(t *testing.T) {
	h := newHarness(t)
	openFirstCard(t, h)
	require.Positive(t, h.app.Len())

	h.press(tea.KeyEsc)
	assert.Nil(t, h.state.Viewer().Current())
	assert.Equal(t, guard.Disarmed, h.guard.Status())
	assert.Zero(t, h.app.Len())

	h.send(tea.KeyMsg{Type: tea.KeyCtrlP})
	assert.False(t, h.guard.WarningVisible())
}

func TestMouse_BackdropClickCloses(t *testing.T) {
	h := newHarness(t)
	openFirstCard(t, h)

	h.send(tea.MouseMsg{X: 50, Y: 20, Type: tea.MouseLeft})
	assert.NotNil(t, h.state.Viewer().Current(), "click inside keeps it open")

	h.send(tea.MouseMsg{X: 50, Y: 20, Type: tea.MouseRight})
	assert.True(t, h.guard.WarningVisible(), "context menu on content warns")

	h.send(tea.MouseMsg{X: 0, Y: 0, Type: tea.MouseLeft})
	assert.Nil(t, h.state.Viewer().Current())
}

// =============================================================================
// COPY AND CLEAR TESTS
// =============================================================================

func TestCopy_CyclesCodeBlocks(t *testing.T) {
	h := newHarness(t)
	h.send(ReplyMsg{Reply: backend.Reply{Content: "```go\nA\n```\n```\nB\n```"}})

	for _, want := range []string{"A", "B", "A"} {
		msgs := collect(h.send(tea.KeyMsg{Type: tea.KeyCtrlY}))
		require.Len(t, msgs, 1)
		copied := msgs[0].(CopiedMsg)
		require.NoError(t, copied.Err)
		assert.Equal(t, want, h.copied[len(h.copied)-1])
	}
}

func TestClearHistory(t *testing.T) {
	h := newHarness(t)
	h.send(ReplyMsg{Reply: backend.Reply{Content: "x", Metadata: sopFiles}})
	require.Len(t, h.state.Messages(), 2)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.Len(t, h.state.Messages(), 1)
	assert.Nil(t, h.state.Gallery(1))
	require.NotNil(t, h.m.Toast())
	assert.True(t, strings.Contains(h.m.Toast().Message, "Riwayat"))
}

func TestProbeResult_FromBeforeClearIsIgnored(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(ReplyMsg{Reply: backend.Reply{Content: "lama", Metadata: sopFiles}})
	var stale []ProbeResultMsg
	for _, msg := range collect(cmd) {
		if p, ok := msg.(ProbeResultMsg); ok {
			stale = append(stale, p)
		}
	}
	require.Len(t, stale, 2)

	h.send(tea.KeyMsg{Type: tea.KeyCtrlL})
	h.send(ReplyMsg{Reply: backend.Reply{Content: "baru", Metadata: sopFiles}})
	g := h.state.Gallery(1)
	require.NotNil(t, g)

	for _, p := range stale {
		require.Equal(t, 1, p.Message)
		h.send(p)
	}
	assert.Len(t, g.Pending(), 2, "new cards wait for their own probes")
}

func TestKeyEvent_Modifiers(t *testing.T) {
	ev := keyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("S"), Alt: true})
	assert.Equal(t, input.KindKey, ev.Kind)
	assert.Equal(t, "alt+S", ev.Key)
	assert.True(t, ev.Alt)
	assert.True(t, ev.Shift)
	assert.False(t, ev.Ctrl)

	ev = keyEvent(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, ev.Ctrl)
	assert.False(t, ev.Shift)

	ev = keyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	assert.False(t, ev.Ctrl || ev.Alt || ev.Shift)
}
