// subroute - an in-process command host with a routing shell.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/subroute/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cli.Parse(argv)
	if err != nil {
		return err
	}
	switch {
	case args.Help:
		cli.PrintUsage(os.Stdout)
		return nil
	case args.Version:
		cli.PrintVersion(os.Stdout)
		return nil
	}

	app, err := cli.NewApp(cli.Options{
		ConfigPath: args.ConfigPath,
		NoColor:    args.NoColor,
		Watch:      args.Script == "",
	})
	if err != nil {
		return err
	}
	defer app.Close()

	session := cli.NewSession(app, os.Stdout)

	if args.Script != "" {
		f, err := os.Open(args.Script)
		if err != nil {
			return err
		}
		defer f.Close()
		return session.Run(f, true)
	}
	if cli.IsTTY() {
		return session.RunInteractive()
	}
	return session.Run(os.Stdin, false)
}
