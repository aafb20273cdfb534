// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// PebbleKV stores keys in a Pebble database directory.
type PebbleKV struct {
	db *pebble.DB
}

// OpenPebbleKV opens or creates the database at dir.
func OpenPebbleKV(dir string) (*PebbleKV, error) {
	if dir == "" {
		return nil, errors.New("storage: pebble backend needs a directory")
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble at %s", dir)
	}
	return &PebbleKV{db: db}, nil
}

// Get copies the value out before releasing pebble's buffer.
func (p *PebbleKV) Get(key string) ([]byte, error) {
	v, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	defer closer.Close()
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set writes key with a synced commit.
func (p *PebbleKV) Set(key string, value []byte) error {
	return errors.Wrapf(p.db.Set([]byte(key), value, pebble.Sync), "set %s", key)
}

// Close closes the database.
func (p *PebbleKV) Close() error {
	return p.db.Close()
}
