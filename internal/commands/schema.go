// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// REGISTRATION ERRORS
// =============================================================================

var (
	// ErrInvalidSchema matches every *SchemaError.
	ErrInvalidSchema = errors.New("invalid command schema")

	// ErrNameInUse matches every *ConflictError.
	ErrNameInUse = errors.New("name/alias already in use")
)

// Schema rules, in the order they are checked.
const (
	RuleDefinition       = "definition"
	RuleDuplicateName    = "duplicate-name"
	RuleRequiredOrder    = "required-before-optional"
	RuleVariadicLast     = "variadic-last"
	RuleRequiredDefault  = "required-with-default"
	RuleInvalidDefault   = "invalid-default"
	RuleInvalidFlag      = "invalid-flag"
	RuleNegativeCooldown = "negative-cooldown"
)

// SchemaError describes a malformed command definition.
type SchemaError struct {
	Rule    string
	Command string
	Slot    string
	Reason  string
}

func (e *SchemaError) Error() string {
	msg := "command '" + e.Command + "': " + e.Reason
	if e.Slot != "" {
		msg += " (argument '" + e.Slot + "')"
	}
	return msg
}

// Is makes errors.Is(err, ErrInvalidSchema) hold.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// ConflictError reports a name or alias that is already registered.
type ConflictError struct {
	Command string
	Label   string
	Owner   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("command '%s': name/alias '%s' already in use by '%s'", e.Command, e.Label, e.Owner)
}

// Is makes errors.Is(err, ErrNameInUse) hold.
func (e *ConflictError) Is(target error) bool {
	return target == ErrNameInUse
}

// =============================================================================
// SCHEMA VALIDATION
// =============================================================================

// ValidateSchema checks a command definition before registration. The
// argument rules run in a fixed order: duplicate names, required before
// optional, variadic last, no default on a required slot, then defaults
// that fail their own type. Flags must start with marker.
func ValidateSchema(cmd *Command, marker string) error {
	fail := func(rule, slot, format string, a ...any) error {
		return &SchemaError{Rule: rule, Command: cmd.Name, Slot: slot, Reason: fmt.Sprintf(format, a...)}
	}

	if strings.TrimSpace(cmd.Name) == "" || strings.ContainsAny(cmd.Name, " \t") {
		return fail(RuleDefinition, "", "name must be a single non-empty word")
	}
	for _, alias := range cmd.Aliases {
		if strings.TrimSpace(alias) == "" || strings.ContainsAny(alias, " \t") {
			return fail(RuleDefinition, "", "alias %q must be a single non-empty word", alias)
		}
	}
	if cmd.Handler == nil {
		return fail(RuleDefinition, "", "no handler")
	}

	seen := make(map[string]bool, len(cmd.Args))
	for _, s := range cmd.Args {
		if s.Name == "" {
			return fail(RuleDefinition, "", "argument without a name")
		}
		if seen[s.Name] {
			return fail(RuleDuplicateName, s.Name, "duplicate argument name")
		}
		seen[s.Name] = true
	}

	optionalSeen := false
	for _, s := range cmd.Args {
		if !s.Required {
			optionalSeen = true
			continue
		}
		if optionalSeen {
			return fail(RuleRequiredOrder, s.Name, "required argument follows an optional one")
		}
	}

	for i, s := range cmd.Args {
		if s.Variadic && i != len(cmd.Args)-1 {
			return fail(RuleVariadicLast, s.Name, "variadic argument must be last")
		}
	}

	for _, s := range cmd.Args {
		if s.Required && s.HasDefault() {
			return fail(RuleRequiredDefault, s.Name, "required argument cannot have a default value")
		}
	}

	for _, s := range cmd.Args {
		if s.HasDefault() && !s.Valid(s.Default) {
			return fail(RuleInvalidDefault, s.Name, "default value %q is not valid for this argument", s.Default)
		}
	}

	for _, f := range cmd.Flags {
		if len(f) <= len(marker) || !strings.HasPrefix(f, marker) {
			return fail(RuleInvalidFlag, "", "flag %q must start with %q", f, marker)
		}
	}

	if cmd.Cooldown < 0 {
		return fail(RuleNegativeCooldown, "", "cooldown cannot be negative")
	}
	return nil
}
