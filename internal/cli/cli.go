// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Version information (set at build time)
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// ErrUsage marks command-line mistakes.
var ErrUsage = errors.New("usage")

// Args holds parsed command-line arguments.
type Args struct {
	// ConfigPath overrides ~/.subroute/config.toml.
	ConfigPath string

	// Script reads command lines from a file instead of stdin.
	Script string

	NoColor bool
	Version bool
	Help    bool
}

const usageText = `subroute - command routing shell

Usage:
  subroute [--config PATH] [--no-color] [--script FILE]
  subroute --version
  subroute --help

Options:
  --config PATH   Configuration file (default ~/.subroute/config.toml)
  --script FILE   Run the command lines in FILE, then exit
  --no-color      Disable colour output
  --version       Print version information
  -h, --help      Show this help

Interactive input (or each script line) is a command line such as
"/sr help", run as the current caller. Lines starting with '.' control the
shell:

  .join NAME      Bring a player online and act as them
  .leave NAME     Take a player offline
  .as NAME        Act as an online player
  .console        Act as the console
  .who            List online players
  .reload         Reload the configuration
  .quit           Exit

Environment:
  SUBROUTE_COMMAND, SUBROUTE_PLAYERS_DB, SUBROUTE_OPERATORS, SUBROUTE_NO_COLOR

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "subroute version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments, without the program name.
func Parse(argv []string) (Args, error) {
	var parsed Args

	value := func(i *int, name string) (string, error) {
		if *i+1 >= len(argv) {
			return "", fmt.Errorf("%w: %s needs a value", ErrUsage, name)
		}
		*i++
		return argv[*i], nil
	}

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		var err error

		switch {
		case arg == "--config":
			parsed.ConfigPath, err = value(&i, arg)
		case strings.HasPrefix(arg, "--config="):
			parsed.ConfigPath = strings.TrimPrefix(arg, "--config=")
		case arg == "--script":
			parsed.Script, err = value(&i, arg)
		case strings.HasPrefix(arg, "--script="):
			parsed.Script = strings.TrimPrefix(arg, "--script=")
		case arg == "--no-color":
			parsed.NoColor = true
		case arg == "--version" || arg == "-v":
			parsed.Version = true
		case arg == "--help" || arg == "-h":
			parsed.Help = true
		default:
			err = fmt.Errorf("%w: unknown argument %q", ErrUsage, arg)
		}
		if err != nil {
			return Args{}, err
		}
	}
	return parsed, nil
}
