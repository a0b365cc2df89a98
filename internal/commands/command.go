// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/sender"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// DefaultCategory is used for commands that declare none.
const DefaultCategory = "None"

// Handler runs a command after routing, gating and binding succeeded.
// A returned error is logged and reported to the caller as an internal error.
type Handler func(ctx *Context) error

// Command is a subcommand definition. It must not be modified after it has
// been registered.
type Command struct {
	// Name is the primary name, matched case-insensitively.
	Name string

	// Aliases are alternative names. They share the namespace of every
	// other command's name and aliases.
	Aliases []string

	// Description is shown in help.
	Description string

	// Usage overrides the usage line derived from Args.
	Usage string

	// Category groups the command in help.
	Category string

	// PlayerOnly commands refuse non-interactive callers.
	PlayerOnly bool

	// Right gates the command. Empty means unrestricted.
	Right string

	// Cooldown is the minimum time between two uses by one caller.
	Cooldown time.Duration

	// Args is the ordered argument schema.
	Args []args.Slot

	// Flags are the flag tokens the command recognises, e.g. "-s".
	Flags []string

	// Direct commands are also reachable by their own name, without the
	// base command in front.
	Direct bool

	// Hidden commands are left out of help and name completion.
	Hidden bool

	// Handler is the command body.
	Handler Handler
}

// CategoryName returns the category, or DefaultCategory.
func (c *Command) CategoryName() string {
	if c.Category == "" {
		return DefaultCategory
	}
	return c.Category
}

// UsageLine returns Usage, or a line derived from the schema.
func (c *Command) UsageLine() string {
	if c.Usage != "" {
		return c.Usage
	}
	return args.Usage(c.Args)
}

// Labels returns the name followed by the aliases.
func (c *Command) Labels() []string {
	return append([]string{c.Name}, c.Aliases...)
}

// RequiredCount returns the number of required slots.
func (c *Command) RequiredCount() int {
	n := 0
	for _, s := range c.Args {
		if s.Required {
			n++
		}
	}
	return n
}

// flag returns the declared flag matching token, ignoring case.
func (c *Command) flag(token string) (string, bool) {
	i := slices.IndexFunc(c.Flags, func(f string) bool {
		return strings.EqualFold(f, token)
	})
	if i < 0 {
		return "", false
	}
	return c.Flags[i], true
}

// =============================================================================
// EXECUTION CONTEXT
// =============================================================================

// Context is handed to a Handler for one invocation.
type Context struct {
	// Caller issued the invocation.
	Caller sender.Caller

	// Command is the resolved command.
	Command *Command

	// Label is what the caller typed to reach the dispatcher.
	Label string

	// Args holds the bound arguments and flags.
	Args *args.Bag

	// Tokens are the raw tokens after the routing prefix.
	Tokens []string

	// Dispatcher is the dispatcher running the command.
	Dispatcher *Dispatcher
}

// Reply sends a message to the caller.
func (c *Context) Reply(message string) {
	c.Caller.Send(message)
}

// Replyf formats and sends a message to the caller.
func (c *Context) Replyf(format string, a ...any) {
	c.Caller.Send(fmt.Sprintf(format, a...))
}
