// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/util"
)

// ============================================================================
// CALLERS
// ============================================================================

// Player is an online player. Its rights come from the server's policy.
type Player struct {
	id       uuid.UUID
	name     string
	server   *Server
	joinedAt time.Time
}

func (p *Player) ID() uuid.UUID { return p.id }
func (p *Player) Name() string { return p.name }
func (p *Player) Interactive() bool { return true }
func (p *Player) Send(message string) { p.server.deliver(p.name, message) }

// JoinedAt returns when the player joined.
func (p *Player) JoinedAt() time.Time { return p.joinedAt }

// HasRight reports whether the player's role grants right.
func (p *Player) HasRight(right string) bool {
	return p.server.Policy().HasRight(p.name, right)
}

// Exempt reports whether the player is an operator.
func (p *Player) Exempt() bool {
	return p.server.Policy().IsOperator(p.name)
}

// Console is the server console. It is never interactive and holds every
// right.
type Console struct {
	server *Server
}

// ConsoleName is the display name of the console.
const ConsoleName = "CONSOLE"

func (c *Console) ID() uuid.UUID { return uuid.Nil }
func (c *Console) Name() string { return ConsoleName }
func (c *Console) Interactive() bool { return false }
func (c *Console) HasRight(string) bool { return true }
func (c *Console) Exempt() bool { return true }
func (c *Console) Send(message string) { c.server.deliver(ConsoleName, message) }

// ============================================================================
// CONNECTIONS
// ============================================================================

// Join brings a player online and records the sighting. Joining twice
// returns the existing player.
func (s *Server) Join(name string) (*Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t") {
		return nil, fmt.Errorf("invalid player name %q", name)
	}
	if strings.EqualFold(name, ConsoleName) {
		return nil, fmt.Errorf("player name %q is reserved", name)
	}

	s.mu.Lock()
	if p, ok := s.onlineLocked(name); ok {
		s.mu.Unlock()
		return p, nil
	}
	p := &Player{id: PlayerID(name), name: name, server: s, joinedAt: s.now()}
	s.online = append(s.online, p)
	s.mu.Unlock()

	if s.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		if err := s.store.Record(ctx, p.id, p.name, p.joinedAt); err != nil {
			s.log.Error("%v", err)
		}
	}
	s.log.Info("%s joined", name)
	return p, nil
}

// Leave takes a player offline. It reports whether the player was online.
func (s *Server) Leave(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.online, func(p *Player) bool { return strings.EqualFold(p.name, name) })
	if i < 0 {
		return false
	}
	s.log.Info("%s left", s.online[i].name)
	s.online = slices.Delete(s.online, i, i+1)
	return true
}

// Player finds an online player by name.
func (s *Server) Player(name string) (*Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onlineLocked(name)
}

// PlayerByID finds an online player by id.
func (s *Server) PlayerByID(id uuid.UUID) (*Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.online {
		if p.id == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns the online players in join order.
func (s *Server) Players() []*Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.online)
}

func (s *Server) onlineLocked(name string) (*Player, bool) {
	for _, p := range s.online {
		if strings.EqualFold(p.name, name) {
			return p, true
		}
	}
	return nil, false
}

// ============================================================================
// DIRECTORIES
// ============================================================================

// OnlinePlayer implements args.PlayerDirectory.
func (s *Server) OnlinePlayer(name string) (args.Player, bool) {
	p, ok := s.Player(name)
	if !ok {
		return args.Player{}, false
	}
	return args.Player{ID: p.id, Name: p.name}, true
}

// OnlinePlayers implements args.PlayerDirectory.
func (s *Server) OnlinePlayers() []args.Player {
	online := s.Players()
	out := make([]args.Player, len(online))
	for i, p := range online {
		out[i] = args.Player{ID: p.id, Name: p.name}
	}
	return out
}

// KnownPlayer implements args.PlayerDirectory. Without a store only online
// players are known.
func (s *Server) KnownPlayer(name string) (args.Player, bool) {
	if p, ok := s.OnlinePlayer(name); ok {
		return p, true
	}
	if s.store == nil {
		return args.Player{}, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	rec, ok, err := s.store.ByName(ctx, name)
	if err != nil {
		s.log.Error("%v", err)
		return args.Player{}, false
	}
	if !ok {
		return args.Player{}, false
	}
	return args.Player{ID: rec.ID, Name: rec.Name}, true
}

// KnownPlayers implements args.PlayerDirectory.
func (s *Server) KnownPlayers() []args.Player {
	if s.store == nil {
		return s.OnlinePlayers()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	recs, err := s.store.All(ctx)
	if err != nil {
		s.log.Error("%v", err)
		return s.OnlinePlayers()
	}
	out := make([]args.Player, len(recs))
	for i, r := range recs {
		out[i] = args.Player{ID: r.ID, Name: r.Name}
	}
	return out
}

// World implements args.WorldDirectory.
func (s *Server) World(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.worlds {
		if util.Fold(w) == util.Fold(name) {
			return w, true
		}
	}
	return "", false
}

// Worlds implements args.WorldDirectory.
func (s *Server) Worlds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.worlds)
}
