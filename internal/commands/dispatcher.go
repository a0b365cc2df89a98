// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jeranaias/subroute/internal/cooldown"
	"github.com/jeranaias/subroute/internal/logging"
	"github.com/jeranaias/subroute/internal/messages"
	"github.com/jeranaias/subroute/internal/sender"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config describes the base command a Dispatcher serves.
type Config struct {
	// Name is the base command, e.g. "rc" for "/rc <subcommand>".
	Name string

	// Aliases are alternative base labels.
	Aliases []string

	// Description describes the base command.
	Description string

	// Permission gates completion of the base command.
	Permission string

	// PluginName fills {PLUGIN_NAME} in the help header.
	PluginName string

	// FlagMarker starts every flag token.
	FlagMarker string

	// HelpPageSize is the number of visible commands above which help lists
	// categories instead of commands.
	HelpPageSize int

	// DescriptionWidth truncates help descriptions. Zero disables it.
	DescriptionWidth int

	// Messages are the templates sent to callers.
	Messages messages.Messages
}

func (c *Config) setDefaults() {
	if c.FlagMarker == "" {
		c.FlagMarker = "-"
	}
	if c.HelpPageSize <= 0 {
		c.HelpPageSize = 10
	}
	if c.PluginName == "" {
		c.PluginName = c.Name
	}
	c.Messages.FillDefaults()
}

// =============================================================================
// DISPATCHER
// =============================================================================

// Dispatcher routes invocations of one base command to its subcommands.
//
// Dispatch and Complete may run concurrently. Register, UnregisterAll,
// Reload and Close take exclusive access. Handlers must not call those
// methods on the dispatcher running them.
type Dispatcher struct {
	mu        sync.RWMutex
	cfg       Config
	table     CommandTable
	registry  *Registry
	cooldowns *cooldown.Tracker
	clock     cooldown.Clock
	help      *Command
	defs      []*Command
	log       *logging.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithClock sets the clock used for cooldowns.
func WithClock(c cooldown.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// New creates a dispatcher and binds the base command and its aliases in
// table. table may be nil when the host routes to the dispatcher itself.
func New(cfg Config, table CommandTable, opts ...Option) (*Dispatcher, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, errors.New("dispatcher: base command name is required")
	}
	d := &Dispatcher{table: table, log: logging.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	if err := d.build(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// build installs fresh state for cfg. Callers hold d.mu or own d.
func (d *Dispatcher) build(cfg Config) error {
	cfg.setDefaults()
	d.cfg = cfg

	var copts []cooldown.Option
	if d.clock != nil {
		copts = append(copts, cooldown.WithClock(d.clock))
	}
	d.cooldowns = cooldown.New(copts...)
	d.registry = NewRegistry(d.table, d, cfg.FlagMarker)

	if d.table != nil {
		var bound []string
		for _, label := range d.baseLabels() {
			if err := d.table.Bind(label, d); err != nil {
				for _, l := range bound {
					d.table.Release(l)
				}
				return fmt.Errorf("dispatcher: bind %q: %w", label, err)
			}
			bound = append(bound, label)
		}
	}

	d.help = d.newHelp()
	if err := d.registry.Register(d.help); err != nil {
		return fmt.Errorf("dispatcher: register help: %w", err)
	}
	return nil
}

// teardown releases every binding and drops registry and cooldown state.
func (d *Dispatcher) teardown() {
	d.registry.UnregisterAll()
	if d.table != nil {
		for _, label := range d.baseLabels() {
			d.table.Release(label)
		}
	}
	d.cooldowns.Reset()
}

func (d *Dispatcher) baseLabels() []string {
	return append([]string{d.cfg.Name}, d.cfg.Aliases...)
}

func (d *Dispatcher) isBase(label string) bool {
	return slices.ContainsFunc(d.baseLabels(), func(l string) bool {
		return strings.EqualFold(l, label)
	})
}

// Config returns the active configuration.
func (d *Dispatcher) Config() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// Registry returns the active registry.
func (d *Dispatcher) Registry() *Registry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.registry
}

// Cooldowns returns the active cooldown tracker.
func (d *Dispatcher) Cooldowns() *cooldown.Tracker {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cooldowns
}

// Register adds a command. A rejected command is logged and skipped; the
// error is returned for callers that want it.
func (d *Dispatcher) Register(cmd *Command) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.register(cmd)
}

func (d *Dispatcher) register(cmd *Command) error {
	if err := d.registry.Register(cmd); err != nil {
		d.log.Warning("Skipping command: %v", err)
		return err
	}
	d.defs = append(d.defs, cmd)
	return nil
}

// RegisterAll registers each command and returns how many were accepted.
func (d *Dispatcher) RegisterAll(cmds ...*Command) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for _, cmd := range cmds {
		if d.register(cmd) == nil {
			n++
		}
	}
	return n
}

// UnregisterAll removes every command except the built-in help and releases
// their direct bindings.
func (d *Dispatcher) UnregisterAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.registry.UnregisterAll()
	d.defs = nil
	if err := d.registry.Register(d.help); err != nil {
		d.log.Error("Re-registering help failed: %v", err)
	}
}

// Reload tears down all state, applies cfg and registers the previously
// accepted commands again. Cooldowns are forgotten. When cfg cannot be
// applied the previous configuration is rebuilt with the same commands and
// the error is returned.
func (d *Dispatcher) Reload(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return errors.New("dispatcher: base command name is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.cfg
	defs := d.defs
	d.teardown()
	if err := d.build(cfg); err != nil {
		d.log.Error("Reload failed, restoring /%s: %v", prev.Name, err)
		if rerr := d.build(prev); rerr != nil {
			return errors.Join(err, fmt.Errorf("dispatcher: restore: %w", rerr))
		}
		d.restore(defs)
		return err
	}
	d.restore(defs)
	d.log.Info("Reloaded /%s with %d commands", d.cfg.Name, d.registry.Len())
	return nil
}

// restore registers defs into a freshly built registry.
func (d *Dispatcher) restore(defs []*Command) {
	d.defs = nil
	for _, cmd := range defs {
		_ = d.register(cmd)
	}
}

// Close releases every binding held in the host table.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.teardown()
}

// =============================================================================
// RESOLUTION
// =============================================================================

// resolve maps a label and tokens to a command and the number of tokens
// used for routing. A bare base label routes to help.
func (d *Dispatcher) resolve(label string, tokens []string) (*Command, int, bool) {
	base := d.isBase(label)
	if base && len(tokens) == 0 {
		return d.help, 0, true
	}
	if !base {
		cmd, ok := d.registry.Lookup(label)
		return cmd, 0, ok
	}
	cmd, ok := d.registry.Lookup(tokens[0])
	return cmd, 1, ok
}

// =============================================================================
// DISPATCH
// =============================================================================

// Dispatch runs an invocation and reports it as handled. Every outcome,
// including denials, has been delivered to the caller by then.
func (d *Dispatcher) Dispatch(label string, tokens []string, c sender.Caller) bool {
	d.Execute(label, tokens, c)
	return true
}

// Execute runs an invocation and returns its outcome. At most one message
// is sent for a failed invocation.
func (d *Dispatcher) Execute(label string, tokens []string, c sender.Caller) Outcome {
	d.mu.RLock()
	defer d.mu.RUnlock()

	msgs := d.cfg.Messages
	vars := messages.Vars{messages.BaseCommand: d.cfg.Name}

	cmd, offset, ok := d.resolve(label, tokens)
	if !ok {
		return d.deny(c, Unknown, "", messages.Render(msgs.InvalidCommand, vars))
	}
	vars[messages.SubCommandName] = cmd.Name
	vars[messages.Usage] = cmd.UsageLine()

	if cmd.PlayerOnly && !c.Interactive() {
		return d.deny(c, PlayersOnly, cmd.Name, messages.Render(msgs.PlayersOnly, vars))
	}
	if !sender.Allowed(c, cmd.Right) {
		return d.deny(c, NoPermission, cmd.Name, messages.Render(msgs.NoPermission, vars))
	}

	rest := tokens[offset:]
	if positionalCount(cmd, rest, d.cfg.FlagMarker) < cmd.RequiredCount() {
		return d.deny(c, NotEnoughArgs, cmd.Name, messages.Render(msgs.NotEnoughArgs, vars))
	}

	bag, err := Bind(cmd, rest, c, d.cfg.FlagMarker, msgs)
	if err != nil {
		var be *BindError
		if errors.As(err, &be) {
			return d.deny(c, be.Kind, cmd.Name, be.Message)
		}
		return d.deny(c, InvalidArgument, cmd.Name, err.Error())
	}

	if cmd.Cooldown > 0 && c.Interactive() {
		if d.cooldowns.OnCooldown(c.ID(), cmd.Name, cmd.Cooldown) {
			vars[messages.Time] = d.cooldowns.RemainingSeconds(c.ID(), cmd.Name, cmd.Cooldown)
			return d.deny(c, OnCooldown, cmd.Name, messages.Render(msgs.Cooldown, vars))
		}
		d.cooldowns.Touch(c.ID(), cmd.Name)
	}

	ctx := &Context{
		Caller:     c,
		Command:    cmd,
		Label:      label,
		Args:       bag,
		Tokens:     rest,
		Dispatcher: d,
	}
	if err := run(ctx); err != nil {
		d.log.Error("Command /%s %s failed for %s: %v", d.cfg.Name, cmd.Name, c.Name(), err)
		out := d.deny(c, Failed, cmd.Name, messages.Render(msgs.InternalError, vars))
		out.Err = err
		return out
	}

	if cmd == d.help {
		return Outcome{Kind: Help, Command: cmd.Name}
	}
	return Outcome{Kind: Executed, Command: cmd.Name}
}

// deny sends message with the configured prefix and builds the outcome.
func (d *Dispatcher) deny(c sender.Caller, kind Kind, command, message string) Outcome {
	text := d.cfg.Messages.Prefix + message
	c.Send(text)
	return Outcome{Kind: kind, Command: command, Message: text}
}

func run(ctx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return ctx.Command.Handler(ctx)
}

// =============================================================================
// HELPERS FOR HANDLERS
// =============================================================================

// visible returns the commands c may see in help, in registration order.
func (d *Dispatcher) visible(c sender.Caller) []*Command {
	var out []*Command
	for _, cmd := range d.registry.Commands() {
		if cmd.Hidden || !sender.Allowed(c, cmd.Right) {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

func (d *Dispatcher) describe(cmd *Command) string {
	if d.cfg.DescriptionWidth > 0 {
		return util.TruncateWidth(cmd.Description, d.cfg.DescriptionWidth)
	}
	return cmd.Description
}
