// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/subroute/internal/access"
	"github.com/jeranaias/subroute/internal/commands"
	"github.com/jeranaias/subroute/internal/host"
	"github.com/jeranaias/subroute/internal/storage"
)

type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

// take returns the lines written since the last call.
func (o *output) take() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := strings.TrimRight(o.buf.String(), "\n")
	o.buf.Reset()
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	srv     *host.Server
	d       *commands.Dispatcher
	out     *output
	clock   *clock
	reloads chan struct{}
}

func newFixture(t *testing.T, reload func() error) *fixture {
	t.Helper()
	out := &output{}
	clk := &clock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	store, err := storage.Open(storage.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	policy := access.NewPolicy(
		access.WithRole("member", "sr.msg", "sr.world", "sr.roll", "sr.test"),
		access.WithRole("mod", "sr.*"),
		access.WithUser("alice", "mod"),
		access.WithDefaultRole("member"),
	)
	srv := host.NewServer(
		host.WithOutput(out, false),
		host.WithPolicy(policy),
		host.WithStore(store),
		host.WithWorlds("world", "Nether"),
	)
	d, err := commands.New(commands.Config{Name: "sr"}, srv, commands.WithClock(clk.Now))
	require.NoError(t, err)
	t.Cleanup(d.Close)

	n := Register(d, Deps{
		Players: srv,
		Worlds:  srv,
		Mailer:  srv,
		Reload:  reload,
		Roll:    func(n int) int { return n - 1 },
		Clock:   clk.Now,
	})
	require.Equal(t, 8, n)

	_, err = srv.Join("alice")
	require.NoError(t, err)
	_, err = srv.Join("bob")
	require.NoError(t, err)
	out.take()

	return &fixture{srv: srv, d: d, out: out, clock: clk}
}

func (f *fixture) run(t *testing.T, who, line string) []string {
	t.Helper()
	if who == host.ConsoleName {
		f.srv.Execute(f.srv.Console(), line)
	} else {
		p, ok := f.srv.Player(who)
		require.True(t, ok, who)
		f.srv.Execute(p, line)
	}
	return f.out.take()
}

// =============================================================================
// TESTS
// =============================================================================

func TestTest_EchoesBoundArguments(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"[bob] arg0=d1 arg1=bob arg2=5 -s"},
		f.run(t, "bob", "/sr test d1 bob 5 -s"))
	assert.Equal(t, []string{"[bob] arg0=d2 arg1=alice arg2=-3 arg3=true arg4=hello world"},
		f.run(t, "bob", "sr t d2 ALICE -3 yes hello world"))

	lines := f.run(t, "bob", "sr test d3 bob 5")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Invalid value for argument 'arg0'")
}

func TestMsg_DeliversAndCoolsDown(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"[bob] [alice -> me] hi there", "[alice] [me -> bob] hi there"},
		f.run(t, "alice", "/msg bob hi there"))

	lines := f.run(t, "alice", "/tell bob again")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "3.0 seconds")

	f.clock.Advance(3 * time.Second)
	assert.Len(t, f.run(t, "alice", "/w bob again"), 2)

	assert.Equal(t, []string{"[bob] You cannot message yourself."}, f.run(t, "bob", "/msg bob hi"))
}

func TestMsg_ConsoleSkipsCooldown(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 3; i++ {
		assert.Len(t, f.run(t, host.ConsoleName, "/msg bob ping"), 2)
	}
}

func TestMute_BlocksMessagesUntilExpiry(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"[bob] You have been muted for 5 minutes: spamming", "[alice] Muted bob for 5m."},
		f.run(t, "alice", "/sr mute bob 5m spamming"))

	assert.Equal(t, []string{"[bob] You are muted for another 5 minutes."}, f.run(t, "bob", "/msg alice hi"))

	f.clock.Advance(5 * time.Minute)
	assert.Len(t, f.run(t, "bob", "/msg alice hi"), 2)
}

func TestMute_SilentAndUnmute(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"[alice] Muted bob for 1h."}, f.run(t, "alice", "/sr mute -SILENT bob 1h"))
	assert.Equal(t, []string{"[bob] You have been muted for 2 days: No reason given", "[alice] Muted bob for 2d."},
		f.run(t, "alice", "/sr mute bob 2d"))

	assert.Equal(t, []string{"[bob] You are no longer muted.", "[alice] Unmuted bob."}, f.run(t, "alice", "/sr unmute bob"))
	assert.Equal(t, []string{"[alice] bob is not muted."}, f.run(t, "alice", "/sr unmute bob"))
}

func TestMute_RequiresRight(t *testing.T) {
	f := newFixture(t, nil)
	lines := f.run(t, "bob", "/sr mute alice 5m")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "You don't have permission to use this!")
}

func TestWhois_KnowsOfflinePlayers(t *testing.T) {
	f := newFixture(t, nil)
	bob, _ := f.srv.Player("bob")
	f.srv.Leave("bob")

	lines := f.run(t, "alice", "/sr seen BOB")
	require.Len(t, lines, 1)
	assert.Equal(t, "[alice] bob ("+bob.ID().String()+") offline", lines[0])

	f.run(t, "alice", "/sr mute -silent bob 90s")
	lines = f.run(t, "alice", "/sr whois bob")
	assert.Equal(t, []string{"[alice] bob (" + bob.ID().String() + ") offline", "[alice] Muted for another 1m 30s"}, lines)
}

func TestWorld_PlayersOnly(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"[alice] Teleported to Nether."}, f.run(t, "alice", "/sr world nether"))

	lines := f.run(t, host.ConsoleName, "/sr world nether")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "Only players can use this command!")

	lines = f.run(t, "alice", "/sr goto end")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "World 'end' not found")
}

func TestRoll(t *testing.T) {
	f := newFixture(t, nil)

	assert.Equal(t, []string{"[bob] You rolled 6 (1-6)"}, f.run(t, "bob", "/sr roll"))
	f.clock.Advance(time.Second)
	assert.Equal(t, []string{"[alice] bob rolled 20 (1-20)", "[bob] bob rolled 20 (1-20)"},
		f.run(t, "bob", "/sr roll 20 -public"))
	f.clock.Advance(time.Second)

	lines := f.run(t, "bob", "/sr roll 0")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "sides")
}

func TestReload_RunsAsynchronously(t *testing.T) {
	calls := make(chan struct{})
	f := newFixture(t, func() error {
		calls <- struct{}{}
		return errors.New("bad file")
	})

	assert.Equal(t, []string{"[CONSOLE] Reloading..."}, f.run(t, host.ConsoleName, "/sr reload"))
	<-calls
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"[CONSOLE] Reload failed: bad file"}, f.out.take())
	}, time.Second, 5*time.Millisecond)
}

func TestReload_HiddenWithoutHook(t *testing.T) {
	f := newFixture(t, nil)
	got := f.d.Complete("sr", []string{"re"}, f.srv.Console())
	assert.Empty(t, got)
	assert.Equal(t, []string{"[CONSOLE] Reloading is not available."}, f.run(t, host.ConsoleName, "/sr reload"))
}

func TestHelp_ListsCategories(t *testing.T) {
	f := newFixture(t, nil)
	got := f.d.Complete("sr", []string{"help", ""}, f.srv.Console())
	assert.ElementsMatch(t, []string{commands.HelpCategory, CategoryChat, CategoryModeration, CategoryWorld, CategoryFun, CategoryDebug, CategoryAdmin}, got)
}

func TestMutes_Expiry(t *testing.T) {
	clk := &clock{now: time.Unix(0, 0)}
	m := NewMutes(clk.Now)
	id := host.PlayerID("x")

	m.Mute(id, time.Minute)
	left, ok := m.Remaining(id)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, left)

	clk.Advance(time.Minute)
	_, ok = m.Remaining(id)
	assert.False(t, ok)
	assert.False(t, m.Unmute(id))
}

func TestMutes_UnmuteReportsEveryMuteItRemoves(t *testing.T) {
	m := NewMutes(nil)
	id := host.PlayerID("x")
	const rounds = 200

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		lifted  int
		stopped = make(chan struct{})
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stopped:
					return
				default:
				}
				if m.Unmute(id) {
					mu.Lock()
					lifted++
					mu.Unlock()
				}
			}
		}()
	}

	for i := 0; i < rounds; i++ {
		for {
			if _, ok := m.Remaining(id); !ok {
				break
			}
		}
		m.Mute(id, time.Hour)
	}
	close(stopped)
	wg.Wait()

	if m.Unmute(id) {
		lifted++
	}
	assert.Equal(t, rounds, lifted, "every mute is lifted by exactly one reported unmute")
}
