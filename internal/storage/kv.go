// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by KV.Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// DefaultKey is the key the conversation snapshot is stored under.
const DefaultKey = "chatMessages"

// KV is the minimal key/value surface the Store needs.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// =============================================================================
// BACKEND SELECTION
// =============================================================================

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
	BackendMemory = "memory"
)

// Options selects and locates a backend.
type Options struct {
	Backend string
	// Path is a directory for file and pebble, a database file for sqlite.
	Path string
}

// Open returns the backend named by opts.Backend. An empty name means file.
func Open(opts Options) (KV, error) {
	path := expandHome(opts.Path)
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileKV(path)
	case BackendSQLite:
		return OpenSQLiteKV(path)
	case BackendPebble:
		return OpenPebbleKV(path)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, errors.Errorf("storage: unknown backend %q", opts.Backend)
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
