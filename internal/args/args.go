// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package args provides typed argument slots for subcommands.
//
// A Slot pairs a declared argument position with a Type that validates,
// converts and suggests raw tokens. The binder in package commands walks a
// command's slots and fills a Bag with converted values.
package args

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jeranaias/subroute/internal/sender"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// ARGUMENT TYPE
// =============================================================================

// Type parses and validates the raw token for one slot.
//
// Valid must be pure. Convert is only called with input that passed Valid
// and must not fail for such input. Suggest never fails; it returns nil when
// it has nothing to offer.
type Type interface {
	// Valid reports whether raw is acceptable.
	Valid(raw string) bool

	// Convert turns a valid raw token into its typed value.
	Convert(raw string) any

	// Error describes why raw was rejected for the named slot.
	Error(slot, raw string) string

	// Suggest lists dynamic completions for the caller.
	Suggest(c sender.Caller, partial string) []string
}

// =============================================================================
// SLOT
// =============================================================================

// Slot is one declared argument position of a command.
type Slot struct {
	// Name identifies the slot within its command and keys the Bag.
	Name string

	// Type validates and converts tokens for this slot.
	Type Type

	// Required slots must be supplied by the caller.
	Required bool

	// Right gates this slot; empty means unrestricted.
	Right string

	// Default is the raw token used when an optional slot is not supplied.
	// Empty means no default, so "" cannot be declared as one; no built-in
	// type accepts an empty token anyway. Handlers read an absent optional
	// slot with ValueOr.
	Default string

	// Variadic slots consume every remaining positional token, joined with
	// single spaces.
	Variadic bool

	// Options is the closed set of accepted values. When it yields a
	// non-empty list, anything outside it is invalid.
	Options func() []string

	// Suggestions is an advisory completion list. It is never enforced.
	Suggestions func() []string

	// Description is shown in help.
	Description string
}

// closed returns the closed option set, or nil when none applies.
func (s Slot) closed() []string {
	if s.Options == nil {
		return nil
	}
	return s.Options()
}

// HasDefault reports whether the slot declares a default value.
func (s Slot) HasDefault() bool {
	return s.Default != ""
}

// Valid reports whether raw is acceptable for this slot.
func (s Slot) Valid(raw string) bool {
	if opts := s.closed(); len(opts) > 0 && !slices.Contains(opts, raw) {
		return false
	}
	if s.Type == nil {
		return raw != ""
	}
	return s.Type.Valid(raw)
}

// Convert converts a token that passed Valid.
func (s Slot) Convert(raw string) any {
	if s.Type == nil {
		return raw
	}
	return s.Type.Convert(raw)
}

// ErrorMessage describes why raw was rejected.
func (s Slot) ErrorMessage(raw string) string {
	if opts := s.closed(); len(opts) > 0 && !slices.Contains(opts, raw) {
		return Invalid(s.Name, raw, "one of "+strings.Join(opts, ", "))
	}
	if s.Type == nil {
		return Invalid(s.Name, raw, "a value")
	}
	return s.Type.Error(s.Name, raw)
}

// Suggest returns completions for partial. Sources are tried in priority
// order: closed options, then advisory suggestions, then the type's dynamic
// suggestions. The first non-empty source is used and then filtered by a
// case-insensitive prefix match.
func (s Slot) Suggest(c sender.Caller, partial string) []string {
	source := s.closed()
	if len(source) == 0 && s.Suggestions != nil {
		source = s.Suggestions()
	}
	if len(source) == 0 && s.Type != nil {
		source = s.Type.Suggest(c, partial)
	}
	return FilterPrefix(source, partial)
}

// Usage renders the slot for a usage line: <name>, [name], <name...>.
func (s Slot) Usage() string {
	name := s.Name
	if s.Variadic {
		name += "..."
	}
	if s.Required {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

// Usage renders a full usage line for a slot list.
func Usage(slots []Slot) string {
	parts := make([]string, 0, len(slots))
	for _, s := range slots {
		parts = append(parts, s.Usage())
	}
	return strings.Join(parts, " ")
}

// FilterPrefix keeps the candidates that start with partial, ignoring case.
// Source order is preserved.
func FilterPrefix(candidates []string, partial string) []string {
	if len(candidates) == 0 {
		return nil
	}
	if partial == "" {
		return slices.Clone(candidates)
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if util.HasPrefixFold(c, partial) {
			out = append(out, c)
		}
	}
	return out
}

// Invalid formats the standard rejection message for a slot.
func Invalid(slot, raw, expected string) string {
	return fmt.Sprintf("&cInvalid value for argument '%s'. Got: '%s'. Expected: %s.", slot, raw, expected)
}
