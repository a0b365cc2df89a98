// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cooldown tracks when each caller last used each rate-limited
// command.
//
// Records are keyed by (caller, command) and hold the last-use time in
// milliseconds. They are overwritten on every use and never evicted; the
// tracker is dropped as a whole when the dispatcher reloads.
package cooldown

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/subroute/internal/util"
)

// Clock returns the current time.
type Clock func() time.Time

type key struct {
	caller  uuid.UUID
	command string
}

// Tracker is safe for concurrent use. Concurrent touches of the same
// (caller, command) pair are last-write-wins.
type Tracker struct {
	last sync.Map // key -> int64 unix millis
	now  Clock
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		t.now = c
	}
}

// New creates an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) millis() int64 {
	return t.now().UnixMilli()
}

func (t *Tracker) lastUse(caller uuid.UUID, command string) int64 {
	if v, ok := t.last.Load(key{caller, command}); ok {
		return v.(int64)
	}
	return 0
}

// Touch records now as the last use of command by caller.
func (t *Tracker) Touch(caller uuid.UUID, command string) {
	t.last.Store(key{caller, command}, t.millis())
}

// Remaining returns how long caller must still wait. It is zero when the
// command is not on cooldown.
func (t *Tracker) Remaining(caller uuid.UUID, command string, window time.Duration) time.Duration {
	if window <= 0 {
		return 0
	}
	elapsed := t.millis() - t.lastUse(caller, command)
	left := window.Milliseconds() - elapsed
	if left <= 0 {
		return 0
	}
	return time.Duration(left) * time.Millisecond
}

// OnCooldown reports whether less than window has passed since caller last
// used command. A caller that never used it is never on cooldown.
func (t *Tracker) OnCooldown(caller uuid.UUID, command string, window time.Duration) bool {
	return t.Remaining(caller, command, window) > 0
}

// RemainingSeconds formats the remaining wait with one decimal place,
// clamped at zero.
func (t *Tracker) RemainingSeconds(caller uuid.UUID, command string, window time.Duration) string {
	return util.FormatSeconds(t.Remaining(caller, command, window))
}

// Reset forgets every record.
func (t *Tracker) Reset() {
	t.last.Clear()
}
