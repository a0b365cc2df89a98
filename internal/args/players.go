// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package args

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jeranaias/subroute/internal/sender"
)

// =============================================================================
// HOST DIRECTORIES
// =============================================================================

// Player identifies a player known to the host.
type Player struct {
	ID   uuid.UUID
	Name string
}

// PlayerDirectory is the read-only view of players the host exposes to
// argument types.
type PlayerDirectory interface {
	// OnlinePlayer finds a connected player by name, ignoring case.
	OnlinePlayer(name string) (Player, bool)

	// OnlinePlayers lists connected players in join order.
	OnlinePlayers() []Player

	// KnownPlayer finds a player that has ever joined, ignoring case.
	KnownPlayer(name string) (Player, bool)

	// KnownPlayers lists every player that has ever joined.
	KnownPlayers() []Player
}

// WorldDirectory is the read-only view of worlds the host exposes.
type WorldDirectory interface {
	// World returns the canonical name of a world, ignoring case.
	World(name string) (string, bool)

	// Worlds lists the loaded worlds.
	Worlds() []string
}

func playerNames(players []Player) []string {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	return names
}

// =============================================================================
// PLAYER TYPES
// =============================================================================

// OnlinePlayer accepts the name of a connected player and converts to Player.
type OnlinePlayer struct {
	Players PlayerDirectory
}

func (t OnlinePlayer) Valid(raw string) bool {
	_, ok := t.Players.OnlinePlayer(raw)
	return ok
}

func (t OnlinePlayer) Convert(raw string) any {
	p, _ := t.Players.OnlinePlayer(raw)
	return p
}

func (OnlinePlayer) Error(slot, raw string) string {
	return fmt.Sprintf("&cInvalid argument '%s'. Player is not online: '%s'", slot, raw)
}

func (t OnlinePlayer) Suggest(sender.Caller, string) []string {
	return playerNames(t.Players.OnlinePlayers())
}

// KnownPlayer accepts any player that has joined before. Online players are
// matched first so their current display name wins.
type KnownPlayer struct {
	Players PlayerDirectory
}

func (t KnownPlayer) lookup(raw string) (Player, bool) {
	if p, ok := t.Players.OnlinePlayer(raw); ok {
		return p, true
	}
	return t.Players.KnownPlayer(raw)
}

func (t KnownPlayer) Valid(raw string) bool {
	_, ok := t.lookup(raw)
	return ok
}

func (t KnownPlayer) Convert(raw string) any {
	p, _ := t.lookup(raw)
	return p
}

func (KnownPlayer) Error(slot, raw string) string {
	return fmt.Sprintf("&cInvalid argument '%s'. Player '%s' was not found or has never played before!", slot, raw)
}

// Suggest lists online players only; the full history can be large.
func (t KnownPlayer) Suggest(sender.Caller, string) []string {
	return playerNames(t.Players.OnlinePlayers())
}

// =============================================================================
// WORLD TYPE
// =============================================================================

// World accepts the name of a loaded world and converts to its canonical name.
type World struct {
	Worlds WorldDirectory
}

func (t World) Valid(raw string) bool {
	_, ok := t.Worlds.World(raw)
	return ok
}

func (t World) Convert(raw string) any {
	w, _ := t.Worlds.World(raw)
	return w
}

func (World) Error(slot, raw string) string {
	return fmt.Sprintf("&cInvalid argument '%s'. World '%s' not found.", slot, raw)
}

func (t World) Suggest(sender.Caller, string) []string {
	return t.Worlds.Worlds()
}
