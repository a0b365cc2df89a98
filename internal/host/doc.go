// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package host is a small in-process command host.
//
// Server plays the role of a game server: it routes top-level labels to
// dispatch targets, tracks who is online, remembers every player that has
// joined and exposes the loaded worlds. Messages sent to callers are
// rendered to a single output stream, one line per message, tagged with the
// recipient.
//
// # Usage
//
//	srv := host.NewServer(host.WithOutput(os.Stdout, true), host.WithStore(store))
//	d, err := commands.New(cfg, srv)
//	alice, err := srv.Join("Alice")
//	srv.Execute(alice, "/sr roll 20")
package host
