// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for subroute.
//
// Configuration is TOML, with defaults, environment overrides and
// validation. A missing file is generated with the defaults so operators can
// edit the message templates in place.
//
// # Sections
//
//   - [command]: base command label, aliases and flag marker
//   - [messages]: every template sent to callers
//   - [access]: operators, roles, user assignments and invocation limits
//   - [storage]: the known-player database
//   - [server]: worlds and help layout
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (SUBROUTE_*)
//   - ~/.subroute/config.toml, or the path given on the command line
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.LoadFromPath(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	d, err := commands.New(cfg.Dispatcher(), table)
//
// Watcher reloads the file when it changes.
package config
