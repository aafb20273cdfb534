// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package widget

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sopchat/internal/attachment"
	"github.com/jeranaias/sopchat/internal/locale"
	"github.com/jeranaias/sopchat/internal/model"
	"github.com/jeranaias/sopchat/internal/storage"
	"github.com/jeranaias/sopchat/internal/viewer"
)

func newState(t *testing.T, kv storage.KV) *State {
	t.Helper()
	store := storage.NewStore(kv, "", zerolog.Nop())
	return New(Config{Store: store, Printer: locale.New("id"), Logger: zerolog.Nop()})
}

var twoFiles = &model.Metadata{Files: []model.Attachment{
	{Name: "a.png", Type: model.AttachmentImage, URL: "http://x/a.png"},
	{Name: "b.txt", Type: model.AttachmentText, URL: "http://x/b.txt"},
}}

func TestInit_WelcomeOnEmptyHistory(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	assert.False(t, s.CanSubmit("halo"), "input disabled before init")

	require.NoError(t, s.Init())
	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleAssistant, msgs[0].Role)
	assert.Equal(t, locale.New("id").T(locale.Welcome), msgs[0].Content)
	assert.True(t, s.CanSubmit("halo"))
}

func TestInit_CustomWelcome(t *testing.T) {
	store := storage.NewStore(storage.NewMemoryKV(), "", zerolog.Nop())
	s := New(Config{Store: store, Welcome: "Selamat datang", Logger: zerolog.Nop()})
	require.NoError(t, s.Init())
	assert.Equal(t, "Selamat datang", s.Messages()[0].Content)
}

func TestInit_MalformedHistoryStartsFresh(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(storage.DefaultKey, []byte("{{{")))
	s := newState(t, kv)

	require.NoError(t, s.Init())
	require.Len(t, s.Messages(), 1)
}

func TestInit_RestoredFilesGetGalleriesOnce(t *testing.T) {
	kv := storage.NewMemoryKV()
	first := newState(t, kv)
	require.NoError(t, first.Init())
	_, err := first.AppendAssistant("lihat", twoFiles)
	require.NoError(t, err)

	second := newState(t, kv)
	require.NoError(t, second.Init())
	require.Len(t, second.Messages(), 2, "no second welcome")

	g := second.Gallery(1)
	require.NotNil(t, g)
	assert.Equal(t, 2, g.Len())

	probes := second.TakeProbes()
	assert.Equal(t, []Probe{
		{Message: 1, Card: 0, URL: "http://x/a.png"},
		{Message: 1, Card: 1, URL: "http://x/b.txt"},
	}, probes)
	assert.Empty(t, second.TakeProbes())
}

func TestAppendAssistant_QueuesProbesInOrder(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())
	_, err := s.AppendUser("cari sop")
	require.NoError(t, err)
	_, err = s.AppendAssistant("ini", twoFiles)
	require.NoError(t, err)
	_, err = s.AppendAssistant("tanpa file", nil)
	require.NoError(t, err)

	probes := s.TakeProbes()
	require.Len(t, probes, 2)
	assert.Equal(t, 2, probes[0].Message)
	assert.Nil(t, s.Gallery(3))
}

func TestSettleCard(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())
	_, err := s.AppendAssistant("ini", twoFiles)
	require.NoError(t, err)

	assert.True(t, s.SettleCard(0, 1, 1, attachment.Result{State: attachment.StateUnavailable}))
	assert.False(t, s.SettleCard(0, 1, 1, attachment.Result{State: attachment.StateAvailable}))
	assert.False(t, s.SettleCard(0, 0, 0, attachment.Result{State: attachment.StateAvailable}))

	c0, _ := s.Gallery(1).Card(0)
	assert.Equal(t, attachment.StateChecking, c0.State)
}

func TestAppend_BeforeInit(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	_, err := s.AppendUser("x")
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAppend_PersistFailureKeepsTurn(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := newState(t, kv)
	require.NoError(t, s.Init())

	kv.FailSet = errors.New("quota exceeded")
	msg, err := s.AppendUser("halo")
	assert.Error(t, err)
	assert.Equal(t, "halo", msg.Content)
	assert.Len(t, s.Messages(), 2)
}

func TestCanSubmit(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())

	assert.False(t, s.CanSubmit(""))
	assert.False(t, s.CanSubmit("   \n"))
	assert.True(t, s.CanSubmit("ok"))
	assert.Equal(t, "Kirim", s.SubmitLabel())

	s.SetLoading(true)
	assert.False(t, s.CanSubmit("ok"))
	assert.Equal(t, "Mengirim...", s.SubmitLabel())
}

func TestAppendBackendError(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())
	msg, err := s.AppendBackendError()
	require.NoError(t, err)
	assert.Contains(t, msg.Content, "**Terjadi Kesalahan**")
}

func TestViewer_SingleSlot(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())

	first, _ := s.OpenViewer(twoFiles.Files[0])
	second, load := s.OpenViewer(twoFiles.Files[1])
	require.NotNil(t, load)
	assert.True(t, first.Closed())

	s.CloseViewer()
	assert.True(t, second.Closed())
	assert.Nil(t, s.Viewer().Current())
	assert.False(t, s.ResolveViewer(viewer.Result{Generation: second.Generation()}))

	s.CloseViewer()
}

func TestClearHistory(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())
	_, err := s.AppendAssistant("ini", twoFiles)
	require.NoError(t, err)
	s.TakeProbes()

	require.NoError(t, s.ClearHistory())
	assert.Len(t, s.Messages(), 1)
	assert.Empty(t, s.Galleries())
	assert.True(t, s.Ready())
}

func TestSettleCard_ResultFromBeforeClearIsDropped(t *testing.T) {
	s := newState(t, storage.NewMemoryKV())
	require.NoError(t, s.Init())
	_, err := s.AppendUser("q1")
	require.NoError(t, err)
	_, err = s.AppendAssistant("a1", &model.Metadata{Files: []model.Attachment{
		{Name: "old.txt", URL: "http://old/x"},
	}})
	require.NoError(t, err)
	old := s.TakeProbes()
	require.Len(t, old, 1)
	assert.Equal(t, 2, old[0].Message)

	require.NoError(t, s.ClearHistory())
	_, err = s.AppendUser("q2")
	require.NoError(t, err)
	_, err = s.AppendAssistant("a2", &model.Metadata{Files: []model.Attachment{
		{Name: "new.txt", URL: "http://new/y"},
	}})
	require.NoError(t, err)
	fresh := s.TakeProbes()
	require.Len(t, fresh, 1)
	assert.Equal(t, old[0].Message, fresh[0].Message, "same slot, new history")
	assert.NotEqual(t, old[0].Epoch, fresh[0].Epoch)

	stale := attachment.Result{State: attachment.StateUnavailable, StatusCode: 404}
	assert.False(t, s.SettleCard(old[0].Epoch, old[0].Message, old[0].Card, stale))
	c, _ := s.Gallery(2).Card(0)
	assert.Equal(t, "new.txt", c.File.Name)
	assert.Equal(t, attachment.StateChecking, c.State)

	assert.True(t, s.SettleCard(fresh[0].Epoch, fresh[0].Message, fresh[0].Card, attachment.Result{State: attachment.StateAvailable}))
	c, _ = s.Gallery(2).Card(0)
	assert.Equal(t, attachment.StateAvailable, c.State)
}
