// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions shared across subroute.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: display-width safe truncation
//   - Fold, HasPrefixFold: case-folded keys and prefix matching
//
// Durations:
//   - ParseDuration: "10d5h", "1year2months" style input
//   - FormatDuration, FormatDurationLong: "2d 5h" and "2 days 5 hours"
//   - FormatSeconds: one-decimal seconds for cooldown messages
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
