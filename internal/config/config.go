// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/subroute/internal/access"
	"github.com/jeranaias/subroute/internal/commands"
	"github.com/jeranaias/subroute/internal/messages"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the main configuration structure.
type Config struct {
	// Command describes the base command.
	Command CommandConfig `toml:"command"`

	// Messages are the templates sent to callers.
	Messages messages.Messages `toml:"messages"`

	// Access maps players to rights.
	Access AccessConfig `toml:"access"`

	// Storage locates persistent state.
	Storage StorageConfig `toml:"storage"`

	// Server holds host settings.
	Server ServerConfig `toml:"server"`
}

// CommandConfig describes the base command.
type CommandConfig struct {
	Name        string   `toml:"name"`
	Aliases     []string `toml:"aliases"`
	Description string   `toml:"description"`

	// Permission gates completion of the base command. Empty means none.
	Permission string `toml:"permission"`

	PluginName string `toml:"plugin_name"`
	FlagMarker string `toml:"flag_marker"`
}

// RoleConfig lists the rights a role grants.
type RoleConfig struct {
	Rights []string `toml:"rights"`
}

// AccessConfig holds the access policy.
type AccessConfig struct {
	// Operators bypass every right check.
	Operators []string `toml:"operators"`

	Roles       map[string]RoleConfig `toml:"roles"`
	Users       map[string]string     `toml:"users"`
	DefaultRole string                `toml:"default_role"`

	// InvocationsPerSecond limits invocations per caller. Zero is unlimited.
	InvocationsPerSecond float64 `toml:"invocations_per_second"`
	InvocationBurst      int     `toml:"invocation_burst"`
}

// StorageConfig locates persistent state.
type StorageConfig struct {
	// PlayersDB is the SQLite file of known players. ":memory:" keeps the
	// directory in memory.
	PlayersDB string `toml:"players_db"`
}

// ServerConfig holds host settings.
type ServerConfig struct {
	Worlds           []string `toml:"worlds"`
	HelpPageSize     int      `toml:"help_page_size"`
	DescriptionWidth int      `toml:"description_width"`
	NoColor          bool     `toml:"no_color"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Command: CommandConfig{
			Name:        "sr",
			Aliases:     []string{"subroute"},
			Description: "Subroute commands",
			PluginName:  "Subroute",
			FlagMarker:  "-",
		},
		Messages: messages.Default(),
		Access: AccessConfig{
			Operators: []string{},
			Roles: map[string]RoleConfig{
				"member": {Rights: []string{"sr.roll", "sr.msg", "sr.world", "sr.test"}},
				"mod":    {Rights: []string{"sr.*"}},
			},
			Users:                map[string]string{},
			DefaultRole:          "member",
			InvocationsPerSecond: 5,
			InvocationBurst:      10,
		},
		Storage: StorageConfig{
			PlayersDB: defaultPlayersDB(),
		},
		Server: ServerConfig{
			Worlds:           []string{"world", "world_nether", "world_the_end"},
			HelpPageSize:     10,
			DescriptionWidth: 60,
		},
	}
}

func defaultPlayersDB() string {
	dir, err := ConfigDir()
	if err != nil {
		return ":memory:"
	}
	return filepath.Join(dir, "players.db")
}

// SetDefaults fills zero values that have no meaningful zero.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Command.Name == "" {
		c.Command.Name = d.Command.Name
	}
	if c.Command.PluginName == "" {
		c.Command.PluginName = d.Command.PluginName
	}
	if c.Command.FlagMarker == "" {
		c.Command.FlagMarker = d.Command.FlagMarker
	}
	c.Messages.FillDefaults()
	if c.Access.Roles == nil {
		c.Access.Roles = map[string]RoleConfig{}
	}
	if c.Access.Users == nil {
		c.Access.Users = map[string]string{}
	}
	if c.Storage.PlayersDB == "" {
		c.Storage.PlayersDB = d.Storage.PlayersDB
	}
	if c.Server.HelpPageSize <= 0 {
		c.Server.HelpPageSize = d.Server.HelpPageSize
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the subroute configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".subroute"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads the configuration from the default path, generating the file
// when it does not exist.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file path with full
// validation. A missing file is written with defaults first.
func LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := WriteDefault(path); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file into cfg. Keys the structure does not know
// are rejected so that typos surface.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

const fileHeader = `# subroute configuration
# Colour codes use '&' followed by 0-9, a-f or k-o, r.
# Message placeholders: {PLUGIN_NAME} {BASE_CMD} {CATEGORY} {CMD_GROUP}
# {SUB_CMD_NAME} {SUB_CMD_DESCRIPTION} {USAGE} {ARG} {TIME}

`

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the configuration to path atomically.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	return Default().Save(path)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Command
	// ==========================================================================

	if msg := labelProblem(c.Command.Name); msg != "" {
		errs = append(errs, ValidationError{Field: "command.name", Message: msg})
	}
	seen := map[string]bool{util.Fold(c.Command.Name): true}
	for _, alias := range c.Command.Aliases {
		if msg := labelProblem(alias); msg != "" {
			errs = append(errs, ValidationError{Field: "command.aliases", Message: msg})
			continue
		}
		if seen[util.Fold(alias)] {
			errs = append(errs, ValidationError{
				Field:   "command.aliases",
				Message: fmt.Sprintf("duplicate label '%s'", alias),
			})
		}
		seen[util.Fold(alias)] = true
	}
	if c.Command.FlagMarker == "" || strings.IndexFunc(c.Command.FlagMarker, unicode.IsSpace) >= 0 {
		errs = append(errs, ValidationError{
			Field:   "command.flag_marker",
			Message: fmt.Sprintf("invalid marker '%s'", c.Command.FlagMarker),
		})
	}

	// ==========================================================================
	// Access
	// ==========================================================================

	if c.Access.DefaultRole != "" && !c.hasRole(c.Access.DefaultRole) {
		errs = append(errs, ValidationError{
			Field:   "access.default_role",
			Message: fmt.Sprintf("unknown role '%s'", c.Access.DefaultRole),
		})
	}
	for user, role := range c.Access.Users {
		if !c.hasRole(role) {
			errs = append(errs, ValidationError{
				Field:   "access.users." + user,
				Message: fmt.Sprintf("unknown role '%s'", role),
			})
		}
	}
	if c.Access.InvocationsPerSecond < 0 {
		errs = append(errs, ValidationError{
			Field:   "access.invocations_per_second",
			Message: "must not be negative",
		})
	}
	if c.Access.InvocationBurst < 0 {
		errs = append(errs, ValidationError{
			Field:   "access.invocation_burst",
			Message: "must not be negative",
		})
	}

	// ==========================================================================
	// Storage & server
	// ==========================================================================

	if c.Storage.PlayersDB == "" {
		errs = append(errs, ValidationError{Field: "storage.players_db", Message: "must not be empty"})
	}
	if c.Server.HelpPageSize < 1 {
		errs = append(errs, ValidationError{Field: "server.help_page_size", Message: "must be at least 1"})
	}
	if c.Server.DescriptionWidth < 0 {
		errs = append(errs, ValidationError{Field: "server.description_width", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (c *Config) hasRole(role string) bool {
	for name := range c.Access.Roles {
		if strings.EqualFold(name, role) {
			return true
		}
	}
	return false
}

// labelProblem describes why label cannot be a command label, or returns "".
func labelProblem(label string) string {
	switch {
	case label == "":
		return "must not be empty"
	case strings.HasPrefix(label, "/"):
		return fmt.Sprintf("label '%s' must not start with '/'", label)
	case strings.IndexFunc(label, unicode.IsSpace) >= 0:
		return fmt.Sprintf("label '%s' must not contain whitespace", label)
	}
	return ""
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - SUBROUTE_COMMAND: overrides command.name
//   - SUBROUTE_PLAYERS_DB: overrides storage.players_db
//   - SUBROUTE_OPERATORS: comma-separated list replacing access.operators
//   - SUBROUTE_NO_COLOR: set to "1" or "true" to disable colour output
func (c *Config) ApplyEnvOverrides() {
	if name := os.Getenv("SUBROUTE_COMMAND"); name != "" {
		c.Command.Name = name
	}

	if db := os.Getenv("SUBROUTE_PLAYERS_DB"); db != "" {
		c.Storage.PlayersDB = db
	}

	if ops := os.Getenv("SUBROUTE_OPERATORS"); ops != "" {
		c.Access.Operators = nil
		for _, op := range strings.Split(ops, ",") {
			if op = strings.TrimSpace(op); op != "" {
				c.Access.Operators = append(c.Access.Operators, op)
			}
		}
	}

	if noColor := os.Getenv("SUBROUTE_NO_COLOR"); noColor != "" {
		c.Server.NoColor = noColor == "1" || strings.ToLower(noColor) == "true"
	}
}

// =============================================================================
// CONVERSIONS
// =============================================================================

// Dispatcher returns the dispatcher configuration.
func (c *Config) Dispatcher() commands.Config {
	return commands.Config{
		Name:             c.Command.Name,
		Aliases:          append([]string(nil), c.Command.Aliases...),
		Description:      c.Command.Description,
		Permission:       c.Command.Permission,
		PluginName:       c.Command.PluginName,
		FlagMarker:       c.Command.FlagMarker,
		HelpPageSize:     c.Server.HelpPageSize,
		DescriptionWidth: c.Server.DescriptionWidth,
		Messages:         c.Messages,
	}
}

// PolicyOptions returns the options building the access policy.
func (c *Config) PolicyOptions() []access.Option {
	opts := []access.Option{
		access.WithOperators(c.Access.Operators...),
		access.WithDefaultRole(c.Access.DefaultRole),
		access.WithInvocationLimit(c.Access.InvocationsPerSecond, c.Access.InvocationBurst),
	}
	for name, role := range c.Access.Roles {
		opts = append(opts, access.WithRole(name, role.Rights...))
	}
	for user, role := range c.Access.Users {
		opts = append(opts, access.WithUser(user, role))
	}
	return opts
}
