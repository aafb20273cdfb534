// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sopchat/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind selects the toast colour.
type ToastKind int

const (
	ToastStatus ToastKind = iota
	ToastSuccess
	ToastError
)

const (
	// StatusToastDuration is how long status and success toasts stay up.
	StatusToastDuration = 2 * time.Second
	// ErrorToastDuration is longer so the message can be read.
	ErrorToastDuration = 6 * time.Second
)

var toastSeq atomic.Int64

// Toast is a short notice in the status line that dismisses itself.
type Toast struct {
	ID        int64
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewToast creates a toast with the duration for its kind.
func NewToast(kind ToastKind, message string) Toast {
	d := StatusToastDuration
	if kind == ToastError {
		d = ErrorToastDuration
	}
	return Toast{
		ID:        toastSeq.Add(1),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// IsExpired reports whether the toast has outlived its duration.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// ToastExpiredMsg asks the model to drop toast ID if it is still shown.
type ToastExpiredMsg struct {
	ID int64
}

// Dismiss schedules the expiry message for t.
func (t Toast) Dismiss() tea.Cmd {
	id := t.ID
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// Render draws the toast in its kind's colour.
func (t Toast) Render(th *styles.Theme) string {
	switch t.Kind {
	case ToastError:
		return th.StatusError.Render("✗ " + t.Message)
	case ToastSuccess:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Render("✓ " + t.Message)
	default:
		return th.Status.Render(t.Message)
	}
}
