// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands routes invocations of a base command to subcommands.
//
// An invocation is either prefixed ("/rc test d1 bob 5") or direct
// ("/test d1 bob 5" for commands registered with Direct). The dispatcher
// resolves the subcommand, applies the player-only, access-right and
// argument-count gates in that order, binds the tokens to the command's
// argument slots, checks the caller's cooldown and finally runs the handler.
//
// # Key Types
//
//   - Command: subcommand definition with its argument schema and flags
//   - Registry: case-insensitive name and alias index, grouped by category
//   - Dispatcher: resolution, gating, binding, cooldowns and completion
//   - Outcome: how one invocation ended
//
// # Usage
//
//	d, err := commands.New(commands.Config{Name: "rc"}, table)
//	if err != nil {
//	    return err
//	}
//	d.Register(&commands.Command{
//	    Name:    "roll",
//	    Args:    []args.Slot{{Name: "sides", Type: args.PositiveInteger{}, Default: "6"}},
//	    Handler: roll,
//	})
//	d.Dispatch("rc", []string{"roll", "20"}, caller)
//
// Get completions for "/rc ro":
//
//	d.Complete("rc", []string{"ro"}, caller)
//	// Returns ["roll"]
package commands
