// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package access decides which rights host callers hold.
//
// Players are mapped to roles; a role grants a list of rights. A right may
// be exact ("rc.ban"), a subtree wildcard ("rc.admin.*") or "*" for
// everything. Operators are exempt from every right check. The policy also
// carries a per-caller invocation limiter.
package access

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/jeranaias/subroute/internal/util"
)

// Wildcard grants every right.
const Wildcard = "*"

// Policy maps players to rights. It is safe for concurrent use.
type Policy struct {
	mu          sync.RWMutex
	operators   map[string]bool
	roles       map[string][]string
	users       map[string]string
	defaultRole string

	limit    rate.Limit
	burst    int
	limiters map[uuid.UUID]*limiterEntry
	limMu    sync.Mutex
	now      func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Option configures a Policy.
type Option func(*Policy)

// WithOperators marks names as exempt from right checks.
func WithOperators(names ...string) Option {
	return func(p *Policy) {
		for _, n := range names {
			p.operators[util.Fold(n)] = true
		}
	}
}

// WithRole defines a role and the rights it grants.
func WithRole(name string, rights ...string) Option {
	return func(p *Policy) {
		p.roles[util.Fold(name)] = append([]string(nil), rights...)
	}
}

// WithUser assigns a role to a player name.
func WithUser(name, role string) Option {
	return func(p *Policy) {
		p.users[util.Fold(name)] = util.Fold(role)
	}
}

// WithDefaultRole sets the role of players without an assignment.
func WithDefaultRole(role string) Option {
	return func(p *Policy) {
		p.defaultRole = util.Fold(role)
	}
}

// WithInvocationLimit allows perSecond invocations per caller with the
// given burst. Zero disables limiting.
func WithInvocationLimit(perSecond float64, burst int) Option {
	return func(p *Policy) {
		p.limit = rate.Limit(perSecond)
		p.burst = burst
	}
}

// WithClock replaces the clock used by the limiter.
func WithClock(now func() time.Time) Option {
	return func(p *Policy) {
		p.now = now
	}
}

// NewPolicy creates a policy.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		operators: make(map[string]bool),
		roles:     make(map[string][]string),
		users:     make(map[string]string),
		limiters:  make(map[uuid.UUID]*limiterEntry),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsOperator reports whether name is exempt from right checks.
func (p *Policy) IsOperator(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.operators[util.Fold(name)]
}

// SetOperator grants or revokes operator status.
func (p *Policy) SetOperator(name string, op bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if op {
		p.operators[util.Fold(name)] = true
	} else {
		delete(p.operators, util.Fold(name))
	}
}

// Role returns the role of a player.
func (p *Policy) Role(name string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.roleLocked(name)
}

func (p *Policy) roleLocked(name string) string {
	if r, ok := p.users[util.Fold(name)]; ok {
		return r
	}
	return p.defaultRole
}

// Rights returns the rights granted to a player through its role.
func (p *Policy) Rights(name string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.roles[p.roleLocked(name)])
}

// HasRight reports whether the player's role grants right. Operator status
// is not considered; callers combine it through Exempt.
func (p *Policy) HasRight(name, right string) bool {
	if right == "" {
		return true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, granted := range p.roles[p.roleLocked(name)] {
		if Matches(granted, right) {
			return true
		}
	}
	return false
}

// Matches reports whether a granted right covers the requested one.
func Matches(granted, right string) bool {
	switch {
	case granted == Wildcard:
		return true
	case strings.HasSuffix(granted, ".*"):
		prefix := strings.TrimSuffix(granted, "*")
		return strings.HasPrefix(util.Fold(right), util.Fold(prefix))
	default:
		return strings.EqualFold(granted, right)
	}
}

// =============================================================================
// INVOCATION LIMITING
// =============================================================================

// Allow consumes one invocation token for caller. It always succeeds when
// limiting is disabled.
func (p *Policy) Allow(caller uuid.UUID) bool {
	if p.limit <= 0 {
		return true
	}
	now := p.now()

	p.limMu.Lock()
	e, ok := p.limiters[caller]
	if !ok {
		burst := p.burst
		if burst <= 0 {
			burst = 1
		}
		e = &limiterEntry{lim: rate.NewLimiter(p.limit, burst)}
		p.limiters[caller] = e
	}
	e.lastSeen = now
	p.limMu.Unlock()

	return e.lim.AllowN(now, 1)
}

// Forget drops limiter state for callers idle longer than maxIdle and
// returns how many were removed.
func (p *Policy) Forget(maxIdle time.Duration) int {
	cutoff := p.now().Add(-maxIdle)

	p.limMu.Lock()
	defer p.limMu.Unlock()

	n := 0
	for id, e := range p.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(p.limiters, id)
			n++
		}
	}
	return n
}
