// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the players a host has seen.
//
// The known-player directory backs offline player arguments: a player who
// joined once can still be named after leaving.
//
// # Usage
//
//	store, err := storage.Open("~/.subroute/players.db")
//	err = store.Record(ctx, id, "Alice", time.Now())
//	rec, ok, err := store.ByName(ctx, "alice")
//
// The path ":memory:" keeps the directory in memory.
package storage
