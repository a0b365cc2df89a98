// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// Kind classifies how an invocation ended.
type Kind int

const (
	Executed Kind = iota
	Help
	Unknown
	PlayersOnly
	NoPermission
	NotEnoughArgs
	InvalidArgument
	ArgumentNoPermission
	MissingArgument
	OnCooldown
	Failed
)

var kindNames = [...]string{
	Executed:             "executed",
	Help:                 "help",
	Unknown:              "unknown-command",
	PlayersOnly:          "players-only",
	NoPermission:         "no-permission",
	NotEnoughArgs:        "not-enough-args",
	InvalidArgument:      "invalid-argument",
	ArgumentNoPermission: "argument-no-permission",
	MissingArgument:      "missing-argument",
	OnCooldown:           "on-cooldown",
	Failed:               "failed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Outcome is the terminal state of one invocation. Every outcome other
// than Executed and Help carries the single message sent to the caller.
type Outcome struct {
	Kind    Kind
	Command string
	Message string
	Err     error
}

// Ran reports whether a command body executed.
func (o Outcome) Ran() bool {
	return o.Kind == Executed || o.Kind == Help || o.Kind == Failed
}
