// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jeranaias/sopchat/internal/model"
)

// maxReplyBytes bounds the decoded reply body.
const maxReplyBytes = 8 << 20

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// URL is the chat endpoint (default: http://127.0.0.1:8787/chat)
	URL string

	// Timeout bounds the whole round trip (default: 60s)
	Timeout time.Duration

	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client

	Logger zerolog.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		URL:     "http://127.0.0.1:8787/chat",
		Timeout: 60 * time.Second,
		Logger:  zerolog.Nop(),
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Completer is what the chat UI needs from a backend.
type Completer interface {
	Complete(ctx context.Context, msgs []model.Message) (Reply, error)
}

// Client posts conversations to the backend. Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client, filling zero values with defaults.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.URL == "" {
		config.URL = defaults.URL
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}
	return &Client{
		config:     config,
		httpClient: httpClient,
		log:        config.Logger.With().Str("component", "backend").Logger(),
	}
}

// URL returns the configured endpoint.
func (c *Client) URL() string { return c.config.URL }

// Complete sends the conversation and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, msgs []model.Message) (Reply, error) {
	body, err := json.Marshal(NewRequest(msgs))
	if err != nil {
		return Reply{}, &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return Reply{}, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	logEvent := func(status int, err error) {
		ev := c.log.Info()
		if err != nil {
			ev = c.log.Warn().Err(err)
		}
		ev.Str("request_id", requestID).
			Int("messages", len(msgs)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("chat round trip")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cerr := transportError(err)
		logEvent(0, cerr)
		return Reply{}, cerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		cerr := statusError(resp.StatusCode, resp.Status)
		logEvent(resp.StatusCode, cerr)
		return Reply{}, cerr
	}

	var reply Reply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&reply); err != nil {
		cerr := &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
		logEvent(resp.StatusCode, cerr)
		return Reply{}, cerr
	}
	logEvent(resp.StatusCode, nil)
	return reply, nil
}

func transportError(err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeConnection, Message: "backend unreachable", Cause: err}
}
