// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package args

import (
	"math"
	"strconv"
	"strings"

	"github.com/jeranaias/subroute/internal/sender"
	"github.com/jeranaias/subroute/internal/util"
)

// =============================================================================
// TEXT TYPES
// =============================================================================

// String accepts any non-empty token.
type String struct{}

func (String) Valid(raw string) bool { return raw != "" }
func (String) Convert(raw string) any { return raw }
func (String) Error(slot, raw string) string {
	return Invalid(slot, raw, "a non-empty value")
}
func (String) Suggest(sender.Caller, string) []string { return nil }

// Text accepts free-form text. It is meant for variadic slots, where the
// remaining tokens arrive joined with spaces.
type Text struct{}

func (Text) Valid(raw string) bool { return strings.TrimSpace(raw) != "" }
func (Text) Convert(raw string) any { return raw }
func (Text) Error(slot, raw string) string {
	return Invalid(slot, raw, "some text")
}
func (Text) Suggest(sender.Caller, string) []string { return nil }

// =============================================================================
// NUMERIC TYPES
// =============================================================================

// Integer accepts a signed 32-bit integer and converts to int.
type Integer struct{}

func (Integer) Valid(raw string) bool {
	_, err := strconv.ParseInt(raw, 10, 32)
	return err == nil
}

func (Integer) Convert(raw string) any {
	n, _ := strconv.ParseInt(raw, 10, 32)
	return int(n)
}

func (Integer) Error(slot, raw string) string {
	return Invalid(slot, raw, "a whole number")
}

func (Integer) Suggest(sender.Caller, string) []string { return nil }

// PositiveInteger accepts integers greater than zero and converts to int.
type PositiveInteger struct{}

func (PositiveInteger) Valid(raw string) bool {
	n, err := strconv.ParseInt(raw, 10, 32)
	return err == nil && n > 0
}

func (PositiveInteger) Convert(raw string) any {
	n, _ := strconv.ParseInt(raw, 10, 32)
	return int(n)
}

func (PositiveInteger) Error(slot, raw string) string {
	return Invalid(slot, raw, "a positive whole number")
}

func (PositiveInteger) Suggest(sender.Caller, string) []string { return nil }

// Long accepts a signed 64-bit integer.
type Long struct{}

func (Long) Valid(raw string) bool {
	_, err := strconv.ParseInt(raw, 10, 64)
	return err == nil
}

func (Long) Convert(raw string) any {
	n, _ := strconv.ParseInt(raw, 10, 64)
	return n
}

func (Long) Error(slot, raw string) string {
	return Invalid(slot, raw, "a whole number")
}

func (Long) Suggest(sender.Caller, string) []string { return nil }

// Short accepts a signed 16-bit integer.
type Short struct{}

func (Short) Valid(raw string) bool {
	_, err := strconv.ParseInt(raw, 10, 16)
	return err == nil
}

func (Short) Convert(raw string) any {
	n, _ := strconv.ParseInt(raw, 10, 16)
	return int16(n)
}

func (Short) Error(slot, raw string) string {
	return Invalid(slot, raw, "a short number value (e.g., 5, 20)")
}

func (Short) Suggest(sender.Caller, string) []string { return nil }

// Double accepts a finite floating point number.
type Double struct{}

func (Double) Valid(raw string) bool {
	f, err := strconv.ParseFloat(raw, 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (Double) Convert(raw string) any {
	f, _ := strconv.ParseFloat(raw, 64)
	return f
}

func (Double) Error(slot, raw string) string {
	return Invalid(slot, raw, "a number")
}

func (Double) Suggest(sender.Caller, string) []string { return nil }

// =============================================================================
// BOOLEAN AND DURATION
// =============================================================================

var booleanWords = []string{"true", "false", "yes", "no"}

// Boolean accepts true/false/yes/no in any case.
type Boolean struct{}

func (Boolean) Valid(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

func (Boolean) Convert(raw string) any {
	v := strings.ToLower(raw)
	return v == "true" || v == "yes"
}

func (Boolean) Error(slot, raw string) string {
	return Invalid(slot, raw, "true/false or yes/no")
}

func (Boolean) Suggest(sender.Caller, string) []string { return booleanWords }

// Duration accepts human durations such as 10d5h, 1y or 3months and
// converts to time.Duration.
type Duration struct{}

func (Duration) Valid(raw string) bool {
	_, err := util.ParseDuration(raw)
	return err == nil
}

func (Duration) Convert(raw string) any {
	d, _ := util.ParseDuration(raw)
	return d
}

func (Duration) Error(slot, raw string) string {
	return Invalid(slot, raw, "a valid time duration (e.g., 10d, 5h, 10d5h5m53s, 1y, 10days, 1year2months3days)")
}

func (Duration) Suggest(sender.Caller, string) []string {
	return []string{"30s", "5m", "1h", "1d", "7d", "30d"}
}
