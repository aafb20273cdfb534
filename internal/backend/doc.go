// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend is the HTTP client for the SOP assistant endpoint.
//
// A request carries the whole conversation as role/content pairs; message
// metadata never leaves the client. The reply is the assistant text plus an
// optional list of attached files.
//
//	client := backend.NewClientWithConfig(&backend.ClientConfig{URL: cfg.Backend.URL})
//	reply, err := client.Complete(ctx, store.Messages())
//	if err != nil {
//	    // show the localized backend error as an assistant turn
//	}
package backend
