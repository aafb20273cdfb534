// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// Store owns the ordered conversation history and its persisted snapshot.
type Store struct {
	mu       sync.Mutex
	kv       KV
	key      string
	log      zerolog.Logger
	messages []model.Message

	// Now stamps appended messages. Tests replace it.
	Now func() time.Time
}

// NewStore wraps kv. An empty key falls back to DefaultKey.
func NewStore(kv KV, key string, log zerolog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		kv:  kv,
		key: key,
		log: log.With().Str("component", "store").Str("key", key).Logger(),
		Now: time.Now,
	}
}

// Key returns the key the snapshot lives under.
func (s *Store) Key() string { return s.key }

// Restore loads the last snapshot into memory and returns a copy of it.
// A missing, unreadable or malformed snapshot yields an empty history; the
// cause is logged and never returned.
func (s *Store) Restore() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil

	data, err := s.kv.Get(s.key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("history unreadable, starting empty")
		return nil
	}

	msgs, err := decodeSnapshot(data)
	if err != nil {
		s.log.Warn().Err(err).Int("bytes", len(data)).Msg("history malformed, starting empty")
		return nil
	}
	s.messages = msgs
	return s.copyLocked()
}

// Append stamps, appends and persists a new message. When persisting fails
// the message stays in memory and the error is returned.
func (s *Store) Append(role model.Role, content string, meta *model.Metadata) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.NewMessage(role, content, meta, s.Now())
	s.messages = append(s.messages, msg)
	return msg, s.persistLocked()
}

// Clear drops the whole history and persists the empty snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = nil
	return s.persistLocked()
}

// Snapshot serializes the current history.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return encodeSnapshot(s.messages)
}

// Messages returns a copy of the history.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Close closes the underlying KV.
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) copyLocked() []model.Message {
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) persistLocked() error {
	data, err := encodeSnapshot(s.messages)
	if err != nil {
		return err
	}
	if err := s.kv.Set(s.key, data); err != nil {
		s.log.Warn().Err(err).Int("messages", len(s.messages)).Msg("persist failed")
		return errors.Wrap(err, "persist history")
	}
	return nil
}

// =============================================================================
// SNAPSHOT CODEC
// =============================================================================

func encodeSnapshot(msgs []model.Message) ([]byte, error) {
	if msgs == nil {
		msgs = []model.Message{}
	}
	data, err := json.Marshal(msgs)
	return data, errors.Wrap(err, "encode history")
}

// decodeSnapshot rejects anything that is not an array of well-formed
// messages.
func decodeSnapshot(data []byte) ([]model.Message, error) {
	var msgs []model.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, errors.Wrap(err, "decode history")
	}
	if msgs == nil {
		return nil, errors.New("history is not an array")
	}
	for i, m := range msgs {
		if !m.Role.Valid() {
			return nil, errors.Errorf("message %d has unknown role %q", i, m.Role)
		}
	}
	return msgs, nil
}
