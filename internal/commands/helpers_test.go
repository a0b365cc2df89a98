// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/subroute/internal/args"
)

// =============================================================================
// FAKE CALLER
// =============================================================================

type fakeCaller struct {
	id          uuid.UUID
	name        string
	interactive bool
	exempt      bool
	rights      map[string]bool

	mu   sync.Mutex
	sent []string
}

func newPlayer(name string, rights ...string) *fakeCaller {
	c := &fakeCaller{id: uuid.New(), name: name, interactive: true, rights: make(map[string]bool)}
	for _, r := range rights {
		c.rights[r] = true
	}
	return c
}

func newConsole() *fakeCaller {
	return &fakeCaller{id: uuid.Nil, name: "CONSOLE", exempt: true, rights: make(map[string]bool)}
}

func (c *fakeCaller) ID() uuid.UUID { return c.id }
func (c *fakeCaller) Name() string { return c.name }
func (c *fakeCaller) Interactive() bool { return c.interactive }
func (c *fakeCaller) HasRight(r string) bool { return c.rights[r] }
func (c *fakeCaller) Exempt() bool { return c.exempt }

func (c *fakeCaller) Send(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, message)
}

func (c *fakeCaller) messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.sent...)
}

func (c *fakeCaller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = nil
}

// =============================================================================
// FAKE HOST
// =============================================================================

type fakeTable struct {
	mu    sync.Mutex
	bound map[string]Target
}

func newTable() *fakeTable {
	return &fakeTable{bound: make(map[string]Target)}
}

func (t *fakeTable) Bind(label string, target Target) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := strings.ToLower(label)
	if _, ok := t.bound[key]; ok {
		return errors.New("label taken")
	}
	t.bound[key] = target
	return nil
}

func (t *fakeTable) Release(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.bound, strings.ToLower(label))
}

func (t *fakeTable) has(label string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.bound[strings.ToLower(label)]
	return ok
}

type fakePlayers struct {
	online []args.Player
}

func (f *fakePlayers) OnlinePlayer(name string) (args.Player, bool) {
	for _, p := range f.online {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return args.Player{}, false
}

func (f *fakePlayers) OnlinePlayers() []args.Player { return f.online }

func (f *fakePlayers) KnownPlayer(name string) (args.Player, bool) { return f.OnlinePlayer(name) }

func (f *fakePlayers) KnownPlayers() []args.Player { return f.online }

// =============================================================================
// FAKE CLOCK
// =============================================================================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// =============================================================================
// FIXTURES
// =============================================================================

// recorder captures the context of the last handler run.
type recorder struct {
	calls int
	last  *Context
}

func (r *recorder) handler(ctx *Context) error {
	r.calls++
	r.last = ctx
	return nil
}

// testCommand is the five-slot command used by the end-to-end scenarios.
func testCommand(players args.PlayerDirectory, rec *recorder) *Command {
	return &Command{
		Name:        "test",
		Aliases:     []string{"t"},
		Description: "Exercises every slot kind",
		Args: []args.Slot{
			{Name: "arg0", Type: args.String{}, Required: true, Options: func() []string { return []string{"d1", "d2"} }},
			{Name: "arg1", Type: args.OnlinePlayer{Players: players}, Required: true},
			{Name: "arg2", Type: args.Integer{}, Required: true},
			{Name: "arg3", Type: args.Boolean{}},
			{Name: "arg4", Type: args.Text{}, Variadic: true},
		},
		Flags:   []string{"-s"},
		Handler: rec.handler,
	}
}

type env struct {
	d       *Dispatcher
	table   *fakeTable
	clock   *fakeClock
	players *fakePlayers
	bob     args.Player
}

func newEnv(t *testing.T) *env {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	table := newTable()
	bob := args.Player{ID: uuid.New(), Name: "bob"}
	players := &fakePlayers{online: []args.Player{bob}}

	d, err := New(Config{Name: "rc", Aliases: []string{"roid"}, PluginName: "RoidCore"}, table, WithClock(clock.Now))
	require.NoError(t, err)
	return &env{d: d, table: table, clock: clock, players: players, bob: bob}
}

func noop(*Context) error { return nil }
