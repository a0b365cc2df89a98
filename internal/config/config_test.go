// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/subroute/internal/access"
	"github.com/jeranaias/subroute/internal/messages"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sr", cfg.Command.Name)
	assert.Equal(t, "-", cfg.Command.FlagMarker)
	assert.Equal(t, 10, cfg.Server.HelpPageSize)
	assert.Equal(t, messages.Default(), cfg.Messages)
}

func TestLoadFromPath_GeneratesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[messages]")
	assert.Contains(t, string(data), "no_permission")

	assert.Equal(t, Default().Command, cfg.Command)
	assert.Equal(t, Default().Messages, cfg.Messages)
	assert.Equal(t, Default().Access.Roles, cfg.Access.Roles)
}

func TestLoadFromPath_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[command]
name = "rc"
aliases = ["roid"]
plugin_name = "RoidCore"

[messages]
no_permission = "&4Nope."

[access]
operators = ["Steve"]
default_role = "member"
invocations_per_second = 2
invocation_burst = 4

[access.roles.member]
rights = ["rc.roll"]

[access.users]
alice = "member"

[storage]
players_db = ":memory:"

[server]
worlds = ["lobby"]
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "rc", cfg.Command.Name)
	assert.Equal(t, []string{"roid"}, cfg.Command.Aliases)
	assert.Equal(t, "-", cfg.Command.FlagMarker, "default filled")
	assert.Equal(t, "&4Nope.", cfg.Messages.NoPermission)
	assert.Equal(t, messages.Default().Cooldown, cfg.Messages.Cooldown, "missing templates default")
	assert.Equal(t, []string{"rc.roll"}, cfg.Access.Roles["member"].Rights)
	assert.Equal(t, 10, cfg.Server.HelpPageSize)
	assert.Equal(t, []string{"lobby"}, cfg.Server.Worlds)

	dc := cfg.Dispatcher()
	assert.Equal(t, "rc", dc.Name)
	assert.Equal(t, "RoidCore", dc.PluginName)
	assert.Equal(t, "&4Nope.", dc.Messages.NoPermission)

	p := access.NewPolicy(cfg.PolicyOptions()...)
	assert.True(t, p.IsOperator("steve"))
	assert.True(t, p.HasRight("alice", "rc.roll"))
	assert.True(t, p.HasRight("stranger", "rc.roll"), "default role")
	assert.False(t, p.HasRight("alice", "rc.ban"))
}

func TestLoadFromPath_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[command]\nnmae = \"rc\"\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command.nmae")
}

func TestLoadFromPath_BadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[command\n")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty name", func(c *Config) { c.Command.Name = "" }, "command.name"},
		{"slash name", func(c *Config) { c.Command.Name = "/rc" }, "command.name"},
		{"spaced alias", func(c *Config) { c.Command.Aliases = []string{"a b"} }, "command.aliases"},
		{"alias repeats name", func(c *Config) { c.Command.Aliases = []string{"SR"} }, "command.aliases"},
		{"blank marker", func(c *Config) { c.Command.FlagMarker = " " }, "command.flag_marker"},
		{"unknown default role", func(c *Config) { c.Access.DefaultRole = "ghost" }, "access.default_role"},
		{"unknown user role", func(c *Config) { c.Access.Users["bob"] = "ghost" }, "access.users.bob"},
		{"negative rate", func(c *Config) { c.Access.InvocationsPerSecond = -1 }, "access.invocations_per_second"},
		{"negative burst", func(c *Config) { c.Access.InvocationBurst = -1 }, "access.invocation_burst"},
		{"empty db", func(c *Config) { c.Storage.PlayersDB = "" }, "storage.players_db"},
		{"page size", func(c *Config) { c.Server.HelpPageSize = 0 }, "server.help_page_size"},
		{"width", func(c *Config) { c.Server.DescriptionWidth = -5 }, "server.description_width"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	assert.Equal(t, "no validation errors", ValidateErrors{}.Error())
	errs := ValidateErrors{{Field: "a", Message: "x"}, {Field: "b", Message: "y"}}
	assert.Equal(t, "a: x; b: y", errs.Error())
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SUBROUTE_COMMAND", "rc")
	t.Setenv("SUBROUTE_PLAYERS_DB", ":memory:")
	t.Setenv("SUBROUTE_OPERATORS", "steve, alex ,")
	t.Setenv("SUBROUTE_NO_COLOR", "true")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "rc", cfg.Command.Name)
	assert.Equal(t, ":memory:", cfg.Storage.PlayersDB)
	assert.Equal(t, []string{"steve", "alex"}, cfg.Access.Operators)
	assert.True(t, cfg.Server.NoColor)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Command.Name = "rc"
	cfg.Access.Users["alice"] = "mod"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "rc", loaded.Command.Name)
	assert.Equal(t, "mod", loaded.Access.Users["alice"])
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	var (
		mu     sync.Mutex
		loaded []*Config
	)
	w, err := NewWatcher(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		loaded = append(loaded, cfg)
		mu.Unlock()
	})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	cfg := Default()
	cfg.Command.Name = "rc"
	require.NoError(t, cfg.Save(path))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(loaded) > 0 && loaded[len(loaded)-1].Command.Name == "rc"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_ReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteDefault(path))

	errs := make(chan error, 8)
	w, err := NewWatcher(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err != nil {
			errs <- err
		}
	})
	require.NoError(t, err)
	require.NoError(t, w.Watch())
	defer w.Close()

	writeFile(t, path, "[access]\ndefault_role = \"ghost\"\n")

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload error reported")
	}
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, WriteDefault(path))

	calls := make(chan struct{}, 8)
	w, err := NewWatcher(path, 10*time.Millisecond, func(*Config, error) { calls <- struct{}{} })
	require.NoError(t, err)
	require.NoError(t, w.Watch())

	writeFile(t, filepath.Join(dir, "other.txt"), "x")

	select {
	case <-calls:
		t.Fatal("reloaded on unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
	require.NoError(t, w.Close())
}
