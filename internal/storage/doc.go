// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the chat history on the local machine.
//
// The history is a single JSON array kept under one key of a small key/value
// backend. Four backends are available:
//
//   - file:   one file per key, replaced atomically on every write
//   - sqlite: a kv table in a SQLite database (modernc.org/sqlite, no cgo)
//   - pebble: a Pebble LSM directory
//   - memory: process-local, used by tests and `ask`
//
// Store sits on top of a KV and owns the ordered message list. Every Append
// rewrites the whole snapshot synchronously.
package storage
