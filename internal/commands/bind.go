// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/messages"
	"github.com/jeranaias/subroute/internal/sender"
)

// =============================================================================
// ARGUMENT BINDING
// =============================================================================

// BindError is a binding failure. Message is the text for the caller.
type BindError struct {
	Kind    Kind
	Slot    string
	Message string
}

func (e *BindError) Error() string {
	return e.Message
}

// splitFlags removes the command's declared flags from tokens. Flag
// spellings are normalised to their declared form. Undeclared tokens that
// start with the marker stay positional.
func splitFlags(cmd *Command, tokens []string, marker string) (positional, flags []string) {
	positional = make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if strings.HasPrefix(tok, marker) {
			if f, ok := cmd.flag(tok); ok {
				flags = append(flags, f)
				continue
			}
		}
		positional = append(positional, tok)
	}
	return positional, flags
}

// Bind turns tokens into an argument bag for cmd in two passes: declared
// flags are extracted first, then the remaining tokens fill the slots in
// order. Tokens beyond the last slot are ignored.
func Bind(cmd *Command, tokens []string, c sender.Caller, marker string, msgs messages.Messages) (*args.Bag, error) {
	bag := args.NewBag()

	positional, flags := splitFlags(cmd, tokens, marker)
	for _, f := range flags {
		bag.SetFlag(f)
	}

	next := 0
	for _, slot := range cmd.Args {
		if next < len(positional) {
			raw := positional[next]
			next++
			if slot.Variadic {
				raw = strings.Join(positional[next-1:], " ")
				next = len(positional)
			}

			if !sender.Allowed(c, slot.Right) {
				return nil, &BindError{
					Kind:    ArgumentNoPermission,
					Slot:    slot.Name,
					Message: messages.Render(msgs.ArgumentNoPermission, messages.Vars{messages.Argument: slot.Name}),
				}
			}
			if !slot.Valid(raw) {
				return nil, &BindError{Kind: InvalidArgument, Slot: slot.Name, Message: slot.ErrorMessage(raw)}
			}
			bag.Put(slot.Name, slot.Convert(raw))
			continue
		}

		switch {
		case slot.Required:
			return nil, &BindError{
				Kind:    MissingArgument,
				Slot:    slot.Name,
				Message: messages.Render(msgs.MissingArgument, messages.Vars{messages.Argument: slot.Name}),
			}
		case slot.HasDefault():
			bag.Put(slot.Name, slot.Convert(slot.Default))
		}
	}
	return bag, nil
}

// positionalCount counts the tokens that are not declared flags.
func positionalCount(cmd *Command, tokens []string, marker string) int {
	positional, _ := splitFlags(cmd, tokens, marker)
	return len(positional)
}
