// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
// Use this to determine if interactive prompts are possible.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

// ColorsEnabled returns true if colored output should be used. The flag and
// config switch win; NO_COLOR and CLICOLOR are honoured, then stdout must be
// a terminal. FORCE_COLOR overrides the terminal check.
func ColorsEnabled(disabled bool) bool {
	switch {
	case disabled:
		return false
	case termenv.EnvNoColor():
		return false
	case os.Getenv("FORCE_COLOR") != "":
		return true
	}
	return IsStdoutTTY()
}
