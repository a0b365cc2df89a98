// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/subroute/internal/access"
	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/commands"
	"github.com/jeranaias/subroute/internal/format"
	"github.com/jeranaias/subroute/internal/logging"
	"github.com/jeranaias/subroute/internal/sender"
	"github.com/jeranaias/subroute/internal/storage"
	"github.com/jeranaias/subroute/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultUnknownMessage is sent for labels nothing is bound to.
	DefaultUnknownMessage = "&cUnknown command."

	// DefaultThrottledMessage is sent when a caller exceeds the invocation
	// limit.
	DefaultThrottledMessage = "&cYou are sending commands too quickly."

	// storeTimeout bounds every player store query.
	storeTimeout = 5 * time.Second
)

// ErrLabelTaken is returned by Bind for a label that is already routed.
var ErrLabelTaken = errors.New("label already bound")

// Namespace derives stable player ids from names.
var Namespace = uuid.MustParse("8f3c6a52-6a1e-4a51-9a57-2b7e8e1d4c90")

// PlayerID returns the id a player name always joins with.
func PlayerID(name string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(util.Fold(name)))
}

// ============================================================================
// SERVER
// ============================================================================

// Server routes command lines to dispatch targets and owns the callers.
//
// Its lock is never held while a target runs, so handlers may call back
// into the server.
type Server struct {
	mu      sync.RWMutex
	labels  map[string]commands.Target // folded label
	online  []*Player                  // join order
	worlds  []string
	policy  *access.Policy
	unknown string
	slow    string

	store   *storage.PlayerStore
	console *Console
	log     *logging.Logger
	now     func() time.Time

	outMu    sync.Mutex
	out      io.Writer
	renderer *format.Renderer
}

// Option configures a Server.
type Option func(*Server)

// WithOutput sets where delivered messages are written.
func WithOutput(w io.Writer, color bool) Option {
	return func(s *Server) {
		s.out = w
		s.renderer = format.NewRenderer(w, color)
	}
}

// WithStore backs the known-player directory with store.
func WithStore(store *storage.PlayerStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithPolicy sets the access policy.
func WithPolicy(p *access.Policy) Option {
	return func(s *Server) {
		s.policy = p
	}
}

// WithWorlds sets the loaded worlds.
func WithWorlds(worlds ...string) Option {
	return func(s *Server) {
		s.worlds = slices.Clone(worlds)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

// WithClock replaces the clock used for player sightings.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// NewServer creates a server with nobody online.
func NewServer(opts ...Option) *Server {
	s := &Server{
		labels:  make(map[string]commands.Target),
		policy:  access.NewPolicy(),
		unknown: DefaultUnknownMessage,
		slow:    DefaultThrottledMessage,
		log:     logging.Discard(),
		now:     time.Now,
	}
	WithOutput(io.Discard, false)(s)
	for _, opt := range opts {
		opt(s)
	}
	s.console = &Console{server: s}
	return s
}

// Console returns the console caller.
func (s *Server) Console() *Console {
	return s.console
}

// SetPolicy replaces the access policy.
func (s *Server) SetPolicy(p *access.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
}

// Policy returns the access policy.
func (s *Server) Policy() *access.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetUnknownMessage sets the message sent for unrouted labels.
func (s *Server) SetUnknownMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unknown = msg
}

// SetThrottledMessage sets the message sent to rate-limited callers.
func (s *Server) SetThrottledMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slow = msg
}

// SetWorlds replaces the loaded worlds.
func (s *Server) SetWorlds(worlds ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worlds = slices.Clone(worlds)
}

// ============================================================================
// COMMAND TABLE
// ============================================================================

// Bind routes label to target.
func (s *Server) Bind(label string, target commands.Target) error {
	key := util.Fold(label)
	if key == "" {
		return fmt.Errorf("bind: empty label")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.labels[key]; taken {
		return fmt.Errorf("bind %q: %w", label, ErrLabelTaken)
	}
	s.labels[key] = target
	return nil
}

// Release removes the route for label.
func (s *Server) Release(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.labels, util.Fold(label))
}

// Labels returns the bound labels, sorted.
func (s *Server) Labels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.labels))
	for label := range s.labels {
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}

func (s *Server) target(label string) (commands.Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.labels[util.Fold(label)]
	return t, ok
}

// ============================================================================
// EXECUTION
// ============================================================================

// Execute runs one command line for c. A leading '/' is optional. It
// reports whether a target handled the line.
func (s *Server) Execute(c sender.Caller, input string) bool {
	line := commands.ParseLine(input)
	if line.Label == "" {
		return false
	}

	target, ok := s.target(line.Label)
	if !ok {
		s.mu.RLock()
		msg := s.unknown
		s.mu.RUnlock()
		c.Send(msg)
		return false
	}

	if c.Interactive() {
		s.mu.RLock()
		policy, msg := s.policy, s.slow
		s.mu.RUnlock()
		if !policy.Allow(c.ID()) {
			c.Send(msg)
			return false
		}
	}

	return target.Dispatch(line.Label, line.Tokens, c)
}

// Complete suggests the next token for a partial command line. While the
// label itself is being typed, bound labels are suggested.
func (s *Server) Complete(c sender.Caller, input string) []string {
	line := commands.ParseCompletion(input)
	if len(line.Tokens) == 0 {
		return args.FilterPrefix(s.Labels(), line.Label)
	}

	target, ok := s.target(line.Label)
	if !ok {
		return nil
	}
	return target.Complete(line.Label, line.Tokens, c)
}

// Maintain forgets idle invocation limiters every interval until ctx is
// done.
func (s *Server) Maintain(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Policy().Forget(maxIdle); n > 0 {
				s.log.Info("forgot %d idle limiter(s)", n)
			}
		}
	}
}

// ============================================================================
// OUTPUT
// ============================================================================

func (s *Server) deliver(recipient, message string) {
	line := s.renderer.Render(fmt.Sprintf("&8[&7%s&8] &r%s", recipient, message))

	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, line)
}

// Deliver sends message to the online player with id. It reports whether
// the player was online.
func (s *Server) Deliver(id uuid.UUID, message string) bool {
	p, ok := s.PlayerByID(id)
	if !ok {
		return false
	}
	p.Send(message)
	return true
}

// Broadcast sends message to every online player.
func (s *Server) Broadcast(message string) {
	for _, p := range s.Players() {
		p.Send(message)
	}
}
