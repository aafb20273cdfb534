// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package attachment

// State is the verification state of one attachment.
type State int

const (
	StateChecking State = iota
	StateAvailable
	StateUnavailable
	StateError
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether s is a settled state.
func (s State) Terminal() bool {
	return s == StateAvailable || s == StateUnavailable || s == StateError
}

// Result is the outcome of one probe.
type Result struct {
	State State
	// StatusCode is the HTTP status, zero when the probe never got one.
	StatusCode int
	// Size is the advertised Content-Length, -1 when unknown.
	Size int64
}
