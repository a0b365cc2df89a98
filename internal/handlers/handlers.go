// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package handlers provides the stock subcommands served by a host.
package handlers

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/commands"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Mailer delivers messages to online players.
type Mailer interface {
	// Deliver sends message to the online player with id and reports
	// whether they were online.
	Deliver(id uuid.UUID, message string) bool

	// Broadcast sends message to every online player.
	Broadcast(message string)
}

// Deps are the host capabilities the stock commands use.
type Deps struct {
	Players args.PlayerDirectory
	Worlds  args.WorldDirectory
	Mailer  Mailer

	// Mutes records muted players. One is created when nil.
	Mutes *Mutes

	// Reload reloads the configuration. It runs on its own goroutine, since
	// a handler cannot reload the dispatcher executing it.
	Reload func() error

	// Roll returns a number in [0, n). Defaults to math/rand.
	Roll func(n int) int

	// Clock defaults to time.Now.
	Clock func() time.Time
}

func (d *Deps) setDefaults() {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Mutes == nil {
		d.Mutes = NewMutes(d.Clock)
	}
	if d.Roll == nil {
		d.Roll = rand.IntN
	}
}

// =============================================================================
// CATEGORIES
// =============================================================================

const (
	CategoryChat       = "Chat"
	CategoryModeration = "Moderation"
	CategoryWorld      = "World"
	CategoryFun        = "Fun"
	CategoryDebug      = "Debug"
	CategoryAdmin      = "Admin"
)

// =============================================================================
// REGISTRATION
// =============================================================================

// Commands builds the stock commands. Rights are scoped under base, e.g.
// "sr.mute" for base "sr".
func Commands(base string, deps Deps) []*commands.Command {
	deps.setDefaults()
	right := func(name string) string { return base + "." + name }

	return []*commands.Command{
		msgCommand(right("msg"), deps),
		muteCommand(right("mute"), deps),
		unmuteCommand(right("mute"), deps),
		whoisCommand(right("whois"), deps),
		worldCommand(right("world"), deps),
		rollCommand(right("roll"), deps),
		testCommand(right("test"), deps),
		reloadCommand(right("admin.reload"), deps),
	}
}

// Register registers the stock commands on d and returns how many were
// accepted.
func Register(d *commands.Dispatcher, deps Deps) int {
	return d.RegisterAll(Commands(d.Config().Name, deps)...)
}
