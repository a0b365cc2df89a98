// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/subroute/internal/args"
)

func completionEnv(t *testing.T) *env {
	t.Helper()
	e := newEnv(t)
	rec := &recorder{}
	require.NoError(t, e.d.Register(testCommand(e.players, rec)))
	require.NoError(t, e.d.Register(&Command{Name: "ban", Right: "rc.ban", Handler: noop}))
	require.NoError(t, e.d.Register(&Command{Name: "tp", PlayerOnly: true, Handler: noop,
		Args: []args.Slot{{Name: "target", Type: args.OnlinePlayer{Players: e.players}, Required: true}}}))
	require.NoError(t, e.d.Register(&Command{Name: "secret", Hidden: true, Handler: noop}))
	require.NoError(t, e.d.Register(&Command{Name: "msg", Direct: true, Handler: noop,
		Args: []args.Slot{
			{Name: "target", Type: args.OnlinePlayer{Players: e.players}, Required: true},
			{Name: "text", Type: args.Text{}, Required: true, Variadic: true, Suggestions: func() []string { return []string{"hello", "hi"} }},
		}}))
	return e
}

func TestComplete_CommandNames(t *testing.T) {
	e := completionEnv(t)
	player := newPlayer("alice")

	tests := []struct {
		partial string
		want    []string
	}{
		{"", []string{"help", "test", "tp", "msg"}},
		{"t", []string{"test", "tp"}},
		{"TE", []string{"test"}},
		{"b", nil},
		{"sec", nil},
	}
	for _, tc := range tests {
		got := e.d.Complete("rc", []string{tc.partial}, player)
		assert.Equal(t, tc.want, got, "partial %q", tc.partial)
	}

	admin := newPlayer("admin", "rc.ban")
	assert.Equal(t, []string{"ban"}, e.d.Complete("rc", []string{"b"}, admin))
}

func TestComplete_SlotSuggestions(t *testing.T) {
	e := completionEnv(t)
	player := newPlayer("alice")

	assert.Equal(t, []string{"d1", "d2"}, e.d.Complete("rc", []string{"test", ""}, player))
	assert.Equal(t, []string{"d2"}, e.d.Complete("rc", []string{"test", "D2"}, player))
	assert.Equal(t, []string{"bob"}, e.d.Complete("rc", []string{"test", "d1", "b"}, player))
	assert.Empty(t, e.d.Complete("rc", []string{"test", "d1", "bob", ""}, player), "integers offer nothing")
	assert.Equal(t, []string{"true", "false", "yes", "no"}, e.d.Complete("rc", []string{"test", "d1", "bob", "5", ""}, player))
}

func TestComplete_ClosedOptionsNeverFallBack(t *testing.T) {
	e := completionEnv(t)
	assert.Empty(t, e.d.Complete("rc", []string{"test", "x"}, newPlayer("alice")))
}

func TestComplete_Flags(t *testing.T) {
	e := completionEnv(t)
	player := newPlayer("alice")

	assert.Equal(t, []string{"-s"}, e.d.Complete("rc", []string{"test", "d1", "-"}, player))
	assert.Equal(t, []string{"bob"}, e.d.Complete("rc", []string{"test", "d1", "-s", "b"}, player), "typed flags do not use a slot")
	assert.Empty(t, e.d.Complete("rc", []string{"test", "d1", "-s", "bob", "5", "-"}, player), "flags are offered once")
}

func TestComplete_DirectLabelAndVariadic(t *testing.T) {
	e := completionEnv(t)
	player := newPlayer("alice")

	assert.Equal(t, []string{"bob"}, e.d.Complete("msg", []string{""}, player))
	assert.Equal(t, []string{"hello", "hi"}, e.d.Complete("msg", []string{"bob", "h"}, player))
	assert.Equal(t, []string{"hi"}, e.d.Complete("msg", []string{"bob", "hello", "hi"}, player), "variadic keeps suggesting")
	assert.Equal(t, []string{"hi"}, e.d.Complete("rc", []string{"msg", "bob", "hello", "hi"}, player))
}

func TestComplete_Gates(t *testing.T) {
	e := completionEnv(t)
	player := newPlayer("alice")

	assert.Nil(t, e.d.Complete("rc", nil, player))
	assert.Nil(t, e.d.Complete("rc", []string{"ban", ""}, player), "access right")
	assert.Nil(t, e.d.Complete("rc", []string{"tp", ""}, newConsole()), "player only")
	assert.Equal(t, []string{"bob"}, e.d.Complete("rc", []string{"tp", ""}, player))
	assert.Nil(t, e.d.Complete("rc", []string{"nope", ""}, player))
	assert.Empty(t, e.d.Complete("rc", []string{"tp", "bob", ""}, player), "past the last slot")
}

func TestComplete_BasePermission(t *testing.T) {
	table := newTable()
	d, err := New(Config{Name: "rc", Permission: "rc.use"}, table)
	require.NoError(t, err)
	require.NoError(t, d.Register(&Command{Name: "roll", Handler: noop}))

	assert.Nil(t, d.Complete("rc", []string{"r"}, newPlayer("alice")))
	assert.Equal(t, []string{"roll"}, d.Complete("rc", []string{"r"}, newPlayer("bob", "rc.use")))
}

func TestComplete_HelpCategories(t *testing.T) {
	e := completionEnv(t)
	got := e.d.Complete("rc", []string{"help", ""}, newPlayer("alice"))
	assert.Equal(t, []string{HelpCategory, DefaultCategory}, got)
}
