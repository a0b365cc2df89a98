// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the subroute shell.
//
// The shell wires configuration, storage, the host and the dispatcher into
// an App, then feeds it command lines from an interactive prompt (with
// history and tab completion) or from a script.
//
// # Usage
//
//	args, err := cli.Parse(os.Args[1:])
//	app, err := cli.NewApp(cli.Options{ConfigPath: args.ConfigPath, Out: os.Stdout})
//	defer app.Close()
//	err = cli.NewSession(app, os.Stdout).Run(os.Stdin, false)
package cli
