// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewer shows one attachment at a time in a modal overlay.
//
// Opening an attachment while another is shown closes the first one. Every
// open bumps a generation counter; a text fetch that finishes after its
// viewer was closed or replaced carries an old generation and is dropped.
//
//	h, load := v.Open(att)
//	if load != nil {
//	    res := load(ctx)   // off the UI goroutine
//	    v.Resolve(res)     // back on it
//	}
//	...
//	h.Close()              // idempotent, releases the capture guard
package viewer
