// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sender defines the caller abstraction that issues invocations.
//
// The host owns concrete callers (players, the console); the dispatch core
// only ever sees this interface.
package sender

import "github.com/google/uuid"

// Caller is the entity issuing an invocation.
type Caller interface {
	// ID is the unique, stable identity of the caller.
	ID() uuid.UUID

	// Name is the display name of the caller.
	Name() string

	// Interactive reports whether the caller is an interactive player
	// rather than a passive caller such as the console.
	Interactive() bool

	// HasRight reports whether the caller holds the named access right.
	HasRight(right string) bool

	// Exempt reports whether the caller bypasses access-right checks.
	Exempt() bool

	// Send delivers a message to the caller.
	Send(message string)
}

// Allowed reports whether c may use something gated by right.
// An empty right means no restriction.
func Allowed(c Caller, right string) bool {
	if right == "" {
		return true
	}
	return c.Exempt() || c.HasRight(right)
}
