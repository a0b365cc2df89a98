// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package args

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fakeDirectory struct {
	online []Player
	known  []Player
	worlds []string
}

func find(players []Player, name string) (Player, bool) {
	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Player{}, false
}

func (f *fakeDirectory) OnlinePlayer(name string) (Player, bool) { return find(f.online, name) }
func (f *fakeDirectory) OnlinePlayers() []Player { return f.online }
func (f *fakeDirectory) KnownPlayer(name string) (Player, bool) { return find(f.known, name) }
func (f *fakeDirectory) KnownPlayers() []Player { return f.known }

func (f *fakeDirectory) World(name string) (string, bool) {
	for _, w := range f.worlds {
		if strings.EqualFold(w, name) {
			return w, true
		}
	}
	return "", false
}

func (f *fakeDirectory) Worlds() []string { return f.worlds }

func newDirectory() *fakeDirectory {
	bob := Player{ID: uuid.New(), Name: "Bob"}
	alice := Player{ID: uuid.New(), Name: "Alice"}
	return &fakeDirectory{
		online: []Player{bob},
		known:  []Player{bob, alice},
		worlds: []string{"world", "world_nether", "spawn"},
	}
}

// =============================================================================
// TYPE TESTS
// =============================================================================

func TestBuiltinTypes(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		raw   string
		valid bool
		want  any
	}{
		{"string", String{}, "abc", true, "abc"},
		{"string empty", String{}, "", false, nil},
		{"text", Text{}, "hello there", true, "hello there"},
		{"text blank", Text{}, "   ", false, nil},
		{"integer", Integer{}, "-5", true, -5},
		{"integer overflow", Integer{}, "3000000000", false, nil},
		{"integer junk", Integer{}, "5x", false, nil},
		{"positive", PositiveInteger{}, "7", true, 7},
		{"positive zero", PositiveInteger{}, "0", false, nil},
		{"long", Long{}, "3000000000", true, int64(3000000000)},
		{"short", Short{}, "20", true, int16(20)},
		{"short overflow", Short{}, "40000", false, nil},
		{"double", Double{}, "2.5", true, 2.5},
		{"double nan", Double{}, "NaN", false, nil},
		{"boolean yes", Boolean{}, "YES", true, true},
		{"boolean false", Boolean{}, "false", true, false},
		{"boolean junk", Boolean{}, "maybe", false, nil},
		{"duration", Duration{}, "1h30m", true, 90 * time.Minute},
		{"duration junk", Duration{}, "soon", false, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, tc.typ.Valid(tc.raw))
			if tc.valid {
				assert.Equal(t, tc.want, tc.typ.Convert(tc.raw))
			} else {
				assert.Contains(t, tc.typ.Error("slot", tc.raw), "slot")
			}
		})
	}
}

func TestPlayerTypes(t *testing.T) {
	dir := newDirectory()

	online := OnlinePlayer{Players: dir}
	assert.True(t, online.Valid("bob"))
	assert.False(t, online.Valid("alice"))
	p := online.Convert("BOB").(Player)
	assert.Equal(t, "Bob", p.Name)
	assert.Equal(t, []string{"Bob"}, online.Suggest(nil, ""))

	known := KnownPlayer{Players: dir}
	assert.True(t, known.Valid("alice"))
	assert.False(t, known.Valid("carol"))
	assert.Contains(t, known.Error("target", "carol"), "never played before")
}

func TestWorldType(t *testing.T) {
	w := World{Worlds: newDirectory()}
	assert.True(t, w.Valid("SPAWN"))
	assert.Equal(t, "spawn", w.Convert("SPAWN"))
	assert.False(t, w.Valid("end"))
}

// =============================================================================
// SLOT TESTS
// =============================================================================

func TestSlot_ClosedOptions(t *testing.T) {
	s := Slot{Name: "dungeon", Type: String{}, Required: true, Options: func() []string { return []string{"d1", "d2"} }}

	assert.True(t, s.Valid("d1"))
	assert.False(t, s.Valid("d3"))
	assert.Contains(t, s.ErrorMessage("d3"), "d1, d2")
	assert.Contains(t, s.ErrorMessage("d3"), "dungeon")
}

func TestSlot_SuggestPriority(t *testing.T) {
	dir := newDirectory()

	closed := Slot{
		Name:        "target",
		Type:        OnlinePlayer{Players: dir},
		Options:     func() []string { return []string{"d1", "d2"} },
		Suggestions: func() []string { return []string{"hint"} },
	}
	assert.Equal(t, []string{"d1", "d2"}, closed.Suggest(nil, "D"))
	assert.Empty(t, closed.Suggest(nil, "b"), "closed options never fall back")

	advisory := Slot{Name: "target", Type: OnlinePlayer{Players: dir}, Suggestions: func() []string { return []string{"hint"} }}
	assert.Equal(t, []string{"hint"}, advisory.Suggest(nil, ""))

	dynamic := Slot{Name: "target", Type: OnlinePlayer{Players: dir}}
	assert.Equal(t, []string{"Bob"}, dynamic.Suggest(nil, "b"))

	empty := Slot{Name: "target", Type: OnlinePlayer{Players: dir}, Options: func() []string { return nil }}
	assert.Equal(t, []string{"Bob"}, empty.Suggest(nil, ""), "empty closed set is ignored")
}

func TestSlot_EmptyDefault(t *testing.T) {
	assert.True(t, Slot{Name: "sides", Type: PositiveInteger{}, Default: "6"}.HasDefault())
	assert.False(t, Slot{Name: "note", Type: String{}}.HasDefault())

	for _, typ := range []Type{String{}, Text{}, Integer{}, PositiveInteger{}, Long{}, Short{}, Double{}, Boolean{}, Duration{}} {
		assert.False(t, Slot{Name: "x", Type: typ}.Valid(""), "%T accepts an empty token", typ)
	}
	assert.False(t, Slot{Name: "x"}.Valid(""))
}

func TestSlot_Usage(t *testing.T) {
	slots := []Slot{
		{Name: "target", Required: true},
		{Name: "amount"},
		{Name: "reason", Variadic: true},
	}
	assert.Equal(t, "<target> [amount] [reason...]", Usage(slots))
}

func TestFilterPrefix(t *testing.T) {
	in := []string{"Dungeon", "desert", "forest"}
	assert.Equal(t, []string{"Dungeon", "desert"}, FilterPrefix(in, "d"))
	assert.Equal(t, in, FilterPrefix(in, ""))
	assert.Nil(t, FilterPrefix(nil, "x"))
}

// =============================================================================
// BAG TESTS
// =============================================================================

func TestBag(t *testing.T) {
	b := NewBag()
	b.Put("count", 5)
	b.Put("name", "bob")
	b.SetFlag("-s")

	n, ok := Value[int](b, "count")
	require.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = Value[string](b, "count")
	assert.False(t, ok, "wrong type")

	assert.Equal(t, "fallback", ValueOr(b, "missing", "fallback"))
	assert.Equal(t, []string{"count", "name"}, b.Names())
	assert.True(t, b.Flag("-s"))
	assert.False(t, b.Flag("-x"))
	assert.Equal(t, []string{"-s"}, b.Flags())
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Has("name"))
}
