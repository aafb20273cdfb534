// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/sopchat/internal/model"
)

func conversation() []model.Message {
	now := time.Now()
	return []model.Message{
		model.NewMessage(model.RoleAssistant, "Halo!", nil, now),
		model.NewMessage(model.RoleUser, "cari SOP sterilisasi", nil, now),
		model.NewMessage(model.RoleAssistant, "ini", &model.Metadata{Files: []model.Attachment{
			{Name: "a.txt", Type: "text", URL: "http://x/a.txt"},
		}}, now),
		model.NewMessage(model.RoleUser, "terima kasih", nil, now),
	}
}

func TestComplete_SendsStrippedConversation(t *testing.T) {
	var got map[string]any
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		requestID = r.Header.Get("X-Request-ID")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":"**Siap**","metadata":{"files":[{"name":"sop.png","type":"image","url":"http://x/sop.png"}]}}`))
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{URL: srv.URL})
	reply, err := client.Complete(context.Background(), conversation())
	require.NoError(t, err)

	assert.Equal(t, "**Siap**", reply.Content)
	require.NotNil(t, reply.Metadata)
	require.Len(t, reply.Metadata.Files, 1)
	assert.True(t, reply.Metadata.Files[0].IsImage())

	_, err = uuid.Parse(requestID)
	assert.NoError(t, err)

	msgs, ok := got["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	for _, m := range msgs {
		fields := m.(map[string]any)
		assert.Len(t, fields, 2, "only role and content are sent")
		assert.Contains(t, fields, "role")
		assert.Contains(t, fields, "content")
	}
}

func TestComplete_ReplyWithoutMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":"ok"}`))
	}))
	defer srv.Close()

	reply, err := NewClientWithConfig(&ClientConfig{URL: srv.URL}).Complete(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", reply.Content)
	assert.Nil(t, reply.Metadata)
}

func TestComplete_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClientWithConfig(&ClientConfig{URL: srv.URL}).Complete(context.Background(), conversation())
	require.Error(t, err)

	code, ok := IsStatus(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.True(t, errors.Is(err, ErrBadStatus))
	assert.False(t, IsTimeout(err))
}

func TestComplete_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := NewClientWithConfig(&ClientConfig{URL: srv.URL}).Complete(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	client := NewClientWithConfig(&ClientConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestComplete_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClientWithConfig(&ClientConfig{URL: url}).Complete(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrUnreachable))
}

func TestClientError_SurvivesWrapping(t *testing.T) {
	status := errors.Wrap(statusError(http.StatusServiceUnavailable, "503 Service Unavailable"), "ask")
	code, ok := IsStatus(status)
	assert.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, errors.Is(status, ErrBadStatus))
	assert.False(t, errors.Is(status, ErrTimeout))

	timeout := errors.WithMessage(&ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: context.DeadlineExceeded}, "send")
	assert.True(t, IsTimeout(timeout))
	assert.True(t, errors.Is(timeout, context.DeadlineExceeded))
	_, ok = IsStatus(timeout)
	assert.False(t, ok)

	var ce *ClientError
	require.True(t, errors.As(errors.Cause(status), &ce))
	assert.Equal(t, ErrTypeStatus, ce.Type)
}

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})
	assert.Equal(t, DefaultConfig().URL, c.URL())
	assert.Equal(t, DefaultConfig().Timeout, c.config.Timeout)
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "timeout", ErrTypeTimeout.String())
	assert.Equal(t, "unknown", ErrorType(42).String())
}
