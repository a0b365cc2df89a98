// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/commands"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// MUTES
// =============================================================================

// Mutes tracks muted players until their mute expires.
type Mutes struct {
	mu    sync.Mutex
	until map[uuid.UUID]time.Time
	now   func() time.Time
}

// NewMutes creates an empty mute list.
func NewMutes(now func() time.Time) *Mutes {
	if now == nil {
		now = time.Now
	}
	return &Mutes{until: make(map[uuid.UUID]time.Time), now: now}
}

// Mute silences id for d and returns when the mute ends.
func (m *Mutes) Mute(id uuid.UUID, d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := m.now().Add(d)
	m.until[id] = end
	return end
}

// Unmute lifts a mute and reports whether one was active.
func (m *Mutes) Unmute(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, active := m.remainingLocked(id)
	delete(m.until, id)
	return active
}

// Remaining returns how long id stays muted.
func (m *Mutes) Remaining(id uuid.UUID) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remainingLocked(id)
}

func (m *Mutes) remainingLocked(id uuid.UUID) (time.Duration, bool) {
	end, ok := m.until[id]
	if !ok {
		return 0, false
	}
	left := end.Sub(m.now())
	if left <= 0 {
		delete(m.until, id)
		return 0, false
	}
	return left, true
}

// =============================================================================
// COMMANDS
// =============================================================================

func muteCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "mute",
		Description: "Stops a player from sending private messages",
		Category:    CategoryModeration,
		Right:       right,
		Args: []args.Slot{
			{Name: "player", Type: args.KnownPlayer{Players: deps.Players}, Required: true},
			{Name: "duration", Type: args.Duration{}, Required: true},
			{Name: "reason", Type: args.Text{}, Variadic: true},
		},
		Flags: []string{"-silent"},
		Handler: func(ctx *commands.Context) error {
			target := args.ValueOr(ctx.Args, "player", args.Player{})
			d := args.ValueOr(ctx.Args, "duration", time.Duration(0))
			reason := args.ValueOr(ctx.Args, "reason", "No reason given")

			deps.Mutes.Mute(target.ID, d)
			if !ctx.Args.Flag("-silent") {
				deps.Mailer.Deliver(target.ID, "&cYou have been muted for "+util.FormatDurationLong(d)+": &f"+reason)
			}
			ctx.Replyf("&aMuted &f%s &afor &f%s&a.", target.Name, util.FormatDuration(d))
			return nil
		},
	}
}

func unmuteCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "unmute",
		Description: "Lifts a mute",
		Category:    CategoryModeration,
		Right:       right,
		Args: []args.Slot{
			{Name: "player", Type: args.KnownPlayer{Players: deps.Players}, Required: true},
		},
		Handler: func(ctx *commands.Context) error {
			target := args.ValueOr(ctx.Args, "player", args.Player{})
			if !deps.Mutes.Unmute(target.ID) {
				ctx.Replyf("&e%s is not muted.", target.Name)
				return nil
			}
			deps.Mailer.Deliver(target.ID, "&aYou are no longer muted.")
			ctx.Replyf("&aUnmuted &f%s&a.", target.Name)
			return nil
		},
	}
}

func whoisCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "whois",
		Aliases:     []string{"seen"},
		Description: "Shows what is known about a player",
		Category:    CategoryModeration,
		Right:       right,
		Args: []args.Slot{
			{Name: "player", Type: args.KnownPlayer{Players: deps.Players}, Required: true},
		},
		Handler: func(ctx *commands.Context) error {
			p := args.ValueOr(ctx.Args, "player", args.Player{})
			status := "&7offline"
			if _, online := deps.Players.OnlinePlayer(p.Name); online {
				status = "&aonline"
			}
			ctx.Replyf("&f%s &8(%s) %s", p.Name, p.ID, status)
			if left, muted := deps.Mutes.Remaining(p.ID); muted {
				ctx.Replyf("&cMuted for another %s", util.FormatDuration(left))
			}
			return nil
		},
	}
}
