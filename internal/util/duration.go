// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
	year  = 365 * day
)

// ErrInvalidDuration is returned when a duration string cannot be parsed.
var ErrInvalidDuration = errors.New("invalid duration")

// Longer unit spellings must come first so "mo" is not read as "m".
var durationSegment = regexp.MustCompile(`^(\d+)\s*(years?|y|months?|mo|weeks?|w|days?|d|hours?|h|minutes?|mins?|m|seconds?|secs?|s)`)

// ParseDuration parses human durations such as "10d", "5h30m", "1y",
// "10days" or "1year2months3days". Months count as 30 days and years as
// 365 days. The whole input must be consumed and at least one segment
// must be present.
func ParseDuration(input string) (time.Duration, error) {
	rest := strings.ToLower(strings.TrimSpace(input))
	if rest == "" {
		return 0, ErrInvalidDuration
	}

	var total time.Duration
	for rest != "" {
		m := durationSegment.FindStringSubmatch(rest)
		if m == nil {
			return 0, ErrInvalidDuration
		}
		n, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			return 0, ErrInvalidDuration
		}
		total += time.Duration(n) * unitOf(m[2])
		rest = strings.TrimLeft(rest[len(m[0]):], " \t")
	}
	return total, nil
}

func unitOf(u string) time.Duration {
	switch u {
	case "y", "year", "years":
		return year
	case "mo", "month", "months":
		return month
	case "w", "week", "weeks":
		return week
	case "d", "day", "days":
		return day
	case "h", "hour", "hours":
		return time.Hour
	case "m", "min", "mins", "minute", "minutes":
		return time.Minute
	default:
		return time.Second
	}
}

// FormatDuration renders d in the short form "2d 5h 3m 20s", omitting zero
// units. Seconds are always shown when nothing else is.
func FormatDuration(d time.Duration) string {
	return formatUnits(d, "d", "h", "m", "s")
}

// FormatDurationLong renders d as "2 days 5 hours 3 minutes 20 seconds".
func FormatDurationLong(d time.Duration) string {
	return formatUnits(d, " days", " hours", " minutes", " seconds")
}

func formatUnits(d time.Duration, dd, hh, mm, ss string) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, strconv.FormatInt(days, 10)+dd)
	}
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+hh)
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+mm)
	}
	if seconds > 0 || len(parts) == 0 {
		parts = append(parts, strconv.FormatInt(seconds, 10)+ss)
	}
	return strings.Join(parts, " ")
}
