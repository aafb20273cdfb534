// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sopchat/internal/model"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(kv KV) *Store {
	s := NewStore(kv, "", zerolog.Nop())
	s.Now = fixedClock(time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC))
	return s
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestStore_RestoreEmpty(t *testing.T) {
	s := newTestStore(NewMemoryKV())
	assert.Empty(t, s.Restore())
	assert.Equal(t, DefaultKey, s.Key())
}

func TestStore_AppendPersistsFullHistory(t *testing.T) {
	kv := NewMemoryKV()
	s := newTestStore(kv)

	_, err := s.Append(model.RoleUser, "halo", nil)
	require.NoError(t, err)
	reply, err := s.Append(model.RoleAssistant, "ini **SOP**", &model.Metadata{Files: []model.Attachment{
		{Name: "sop.txt", Type: model.AttachmentText, URL: "http://x/sop.txt"},
	}})
	require.NoError(t, err)
	assert.False(t, reply.Timestamp.IsZero())

	reopened := newTestStore(kv)
	restored := reopened.Restore()
	require.Len(t, restored, 2)

	original := s.Messages()
	for i := range original {
		assert.True(t, original[i].Equal(restored[i]), "message %d differs", i)
	}
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	s := newTestStore(NewMemoryKV())
	contents := []string{"satu", "dua\nbaris", "`kode` & <tag>", ""}
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		_, err := s.Append(role, c, nil)
		require.NoError(t, err)
	}

	data, err := s.Snapshot()
	require.NoError(t, err)
	back, err := decodeSnapshot(data)
	require.NoError(t, err)

	msgs := s.Messages()
	require.Len(t, back, len(msgs))
	for i := range msgs {
		assert.True(t, msgs[i].Equal(back[i]))
	}
}

func TestStore_EmptySnapshotIsArray(t *testing.T) {
	s := newTestStore(NewMemoryKV())
	data, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_RestoreMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "{not json"},
		{"object", `{"role":"user"}`},
		{"null", "null"},
		{"bad role", `[{"role":"system","content":"x","metadata":null,"timestamp":"2025-01-01T00:00:00Z"}]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(DefaultKey, []byte(tc.data)))
			s := newTestStore(kv)
			assert.Empty(t, s.Restore())
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStore_PersistFailureKeepsMessage(t *testing.T) {
	kv := NewMemoryKV()
	kv.FailSet = errors.New("disk full")
	s := newTestStore(kv)

	msg, err := s.Append(model.RoleUser, "halo", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "halo", msg.Content)
	assert.Equal(t, 1, s.Len())
}

func TestStore_Clear(t *testing.T) {
	kv := NewMemoryKV()
	s := newTestStore(kv)
	_, err := s.Append(model.RoleUser, "halo", nil)
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Len())

	data, err := kv.Get(DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_MessagesIsCopy(t *testing.T) {
	s := newTestStore(NewMemoryKV())
	_, err := s.Append(model.RoleUser, "asli", nil)
	require.NoError(t, err)

	msgs := s.Messages()
	msgs[0].Content = "diubah"
	assert.Equal(t, "asli", s.Messages()[0].Content)
}

// =============================================================================
// BACKEND TESTS
// =============================================================================

func TestBackends(t *testing.T) {
	dir := t.TempDir()
	backends := []Options{
		{Backend: BackendFile, Path: filepath.Join(dir, "file")},
		{Backend: BackendSQLite, Path: filepath.Join(dir, "sqlite", "kv.db")},
		{Backend: BackendPebble, Path: filepath.Join(dir, "pebble")},
		{Backend: BackendMemory},
	}
	for _, opts := range backends {
		t.Run(opts.Backend, func(t *testing.T) {
			kv, err := Open(opts)
			require.NoError(t, err)
			defer kv.Close()

			_, err = kv.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(DefaultKey, []byte("[1]")))
			require.NoError(t, kv.Set(DefaultKey, []byte("[1,2]")))

			got, err := kv.Get(DefaultKey)
			require.NoError(t, err)
			assert.Equal(t, "[1,2]", string(got))
		})
	}
}

func TestBackends_SurviveReopen(t *testing.T) {
	dir := t.TempDir()
	for _, opts := range []Options{
		{Backend: BackendFile, Path: filepath.Join(dir, "file")},
		{Backend: BackendSQLite, Path: filepath.Join(dir, "kv.db")},
		{Backend: BackendPebble, Path: filepath.Join(dir, "pebble")},
	} {
		t.Run(opts.Backend, func(t *testing.T) {
			kv, err := Open(opts)
			require.NoError(t, err)
			s := newTestStore(kv)
			_, err = s.Append(model.RoleUser, "tetap ada", nil)
			require.NoError(t, err)
			require.NoError(t, s.Close())

			kv, err = Open(opts)
			require.NoError(t, err)
			defer kv.Close()
			restored := newTestStore(kv).Restore()
			require.Len(t, restored, 1)
			assert.Equal(t, "tetap ada", restored[0].Content)
		})
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(Options{Backend: "redis"})
	assert.Error(t, err)
}

func TestFileKV_KeyIsEscaped(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, kv.Set("../escape", []byte("x")))
	assert.Equal(t, filepath.Dir(kv.path("../escape")), kv.dir)
}
