// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"sync"

	"github.com/jeranaias/subroute/internal/sender"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// HOST COMMAND TABLE
// =============================================================================

// Target receives invocations routed by the host's command table.
type Target interface {
	Dispatch(label string, tokens []string, c sender.Caller) bool
	Complete(label string, tokens []string, c sender.Caller) []string
}

// CommandTable is the host capability that routes top-level labels.
type CommandTable interface {
	// Bind routes label to target. It fails when label is taken.
	Bind(label string, target Target) error

	// Release removes a binding made by Bind.
	Release(label string)
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Group is one help category and its commands in registration order.
type Group struct {
	Category string
	Commands []*Command
}

// Registry holds the registered commands. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands []*Command
	index    map[string]*Command // folded name or alias
	names    map[string]bool     // folded primary names
	bound    []string            // labels bound in the host table

	table  CommandTable
	target Target
	marker string
}

// NewRegistry creates an empty registry. Direct commands are bound in table
// and routed to target; table may be nil when nothing is bound.
func NewRegistry(table CommandTable, target Target, flagMarker string) *Registry {
	if flagMarker == "" {
		flagMarker = "-"
	}
	return &Registry{
		index:  make(map[string]*Command),
		names:  make(map[string]bool),
		table:  table,
		target: target,
		marker: flagMarker,
	}
}

// Register validates cmd, checks its name and aliases against every
// registered label, and indexes it. Direct commands are also bound in the
// host table. Nothing is registered when an error is returned.
func (r *Registry) Register(cmd *Command) error {
	if err := ValidateSchema(cmd, r.marker); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	labels := cmd.Labels()
	keys := make(map[string]bool, len(labels))
	for _, label := range labels {
		key := util.Fold(label)
		if owner, ok := r.index[key]; ok {
			return &ConflictError{Command: cmd.Name, Label: label, Owner: owner.Name}
		}
		if keys[key] {
			return &ConflictError{Command: cmd.Name, Label: label, Owner: cmd.Name}
		}
		keys[key] = true
	}

	if cmd.Direct && r.table != nil {
		var done []string
		for _, label := range labels {
			if err := r.table.Bind(label, r.target); err != nil {
				for _, l := range done {
					r.table.Release(l)
				}
				return fmt.Errorf("command '%s': bind %q: %w", cmd.Name, label, err)
			}
			done = append(done, label)
		}
		r.bound = append(r.bound, done...)
	}

	for key := range keys {
		r.index[key] = cmd
	}
	r.names[util.Fold(cmd.Name)] = true
	r.commands = append(r.commands, cmd)
	return nil
}

// Lookup finds a command by name, then by alias, ignoring case.
func (r *Registry) Lookup(token string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.index[util.Fold(token)]
	return cmd, ok
}

// IsName reports whether token is a primary command name.
func (r *Registry) IsName(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[util.Fold(token)]
}

// Commands returns every command in registration order.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Command, len(r.commands))
	copy(out, r.commands)
	return out
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// ByCategory groups commands by category. Groups appear in the order their
// first command was registered and keep registration order inside.
func (r *Registry) ByCategory() []Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var groups []Group
	pos := make(map[string]int)
	for _, cmd := range r.commands {
		cat := cmd.CategoryName()
		i, ok := pos[cat]
		if !ok {
			i = len(groups)
			pos[cat] = i
			groups = append(groups, Group{Category: cat})
		}
		groups[i].Commands = append(groups[i].Commands, cmd)
	}
	return groups
}

// Categories returns the category labels in use.
func (r *Registry) Categories() []string {
	groups := r.ByCategory()
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Category)
	}
	return out
}

// UnregisterAll clears the registry and releases every direct binding.
func (r *Registry) UnregisterAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table != nil {
		for _, label := range r.bound {
			r.table.Release(label)
		}
	}
	r.bound = nil
	r.commands = nil
	r.index = make(map[string]*Command)
	r.names = make(map[string]bool)
}
