// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/sender"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// COMPLETION
// =============================================================================

// Complete returns candidates for the last token of a partial invocation.
// tokens must end with the word being typed, which may be empty.
//
// Resolution matches Execute but ignores the argument-count and cooldown
// gates. Results keep source order.
func (d *Dispatcher) Complete(label string, tokens []string, c sender.Caller) []string {
	if len(tokens) == 0 {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	base := d.isBase(label)
	if base && !sender.Allowed(c, d.cfg.Permission) {
		return nil
	}

	var (
		cmd    *Command
		offset int
		ok     bool
	)
	switch {
	case !base:
		cmd, ok = d.registry.Lookup(label)
	case len(tokens) == 1:
		return d.completeNames(c, tokens[0])
	default:
		cmd, ok = d.registry.Lookup(tokens[0])
		offset = 1
	}
	if !ok {
		return nil
	}
	if cmd.PlayerOnly && !c.Interactive() {
		return nil
	}
	if !sender.Allowed(c, cmd.Right) {
		return nil
	}

	return d.completeArgs(cmd, tokens[offset:], c)
}

// completeNames lists the command names c may use that start with partial.
func (d *Dispatcher) completeNames(c sender.Caller, partial string) []string {
	var out []string
	for _, cmd := range d.registry.Commands() {
		if cmd.Hidden || !sender.Allowed(c, cmd.Right) {
			continue
		}
		if util.HasPrefixFold(cmd.Name, partial) {
			out = append(out, cmd.Name)
		}
	}
	return out
}

// completeArgs asks the slot under the cursor for suggestions. Declared
// flags typed earlier do not occupy a slot. A trailing variadic slot keeps
// supplying suggestions for every further word.
func (d *Dispatcher) completeArgs(cmd *Command, tokens []string, c sender.Caller) []string {
	partial := tokens[len(tokens)-1]
	before, _ := splitFlags(cmd, tokens[:len(tokens)-1], d.cfg.FlagMarker)
	idx := len(before)

	var out []string
	if slot, ok := slotAt(cmd.Args, idx); ok && sender.Allowed(c, slot.Right) {
		out = slot.Suggest(c, partial)
	}

	if strings.HasPrefix(partial, d.cfg.FlagMarker) {
		used := make(map[string]bool)
		for _, tok := range tokens[:len(tokens)-1] {
			if f, ok := cmd.flag(tok); ok {
				used[f] = true
			}
		}
		for _, f := range cmd.Flags {
			if !used[f] && util.HasPrefixFold(f, partial) {
				out = append(out, f)
			}
		}
	}
	return out
}

func slotAt(slots []args.Slot, idx int) (args.Slot, bool) {
	if idx < len(slots) {
		return slots[idx], true
	}
	if n := len(slots); n > 0 && slots[n-1].Variadic {
		return slots[n-1], true
	}
	return args.Slot{}, false
}
