// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"
	"unicode"
)

// =============================================================================
// LINE PARSING
// =============================================================================

// Line is a tokenized invocation.
type Line struct {
	// Label is the first word without the leading '/'.
	Label string

	// Tokens are the words after the label.
	Tokens []string
}

// ParseLine splits an input line into a label and tokens. A leading '/' is
// optional. Quoted words may contain spaces.
func ParseLine(input string) Line {
	parts := splitCommandLine(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	if len(parts) == 0 {
		return Line{}
	}
	return Line{Label: parts[0], Tokens: parts[1:]}
}

// ParseCompletion is ParseLine for partial input: when the line ends in
// whitespace an empty token is appended, since the caller has started a new
// word.
func ParseCompletion(input string) Line {
	input = strings.TrimLeftFunc(input, unicode.IsSpace)
	parts := splitCommandLine(strings.TrimPrefix(input, "/"))
	if len(parts) == 0 {
		return Line{}
	}
	line := Line{Label: parts[0], Tokens: parts[1:]}
	if input != "" && unicode.IsSpace(rune(input[len(input)-1])) && !openQuote(input) {
		line.Tokens = append(line.Tokens, "")
	}
	return line
}

// Split tokenizes a raw argument string.
func Split(input string) []string {
	return splitCommandLine(input)
}

// splitCommandLine splits a command line into tokens, respecting quotes.
// Supports both single and double quotes for arguments with spaces.
func splitCommandLine(input string) []string {
	var tokens []string
	var current strings.Builder
	var inSingleQuote, inDoubleQuote, quoted bool

	for i := 0; i < len(input); i++ {
		char := input[i]

		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			quoted = true

		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			quoted = true

		case char == '\\' && i+1 < len(input) && (inDoubleQuote || inSingleQuote):
			next := input[i+1]
			if next == '"' || next == '\'' || next == '\\' {
				current.WriteByte(next)
				i++
			} else {
				current.WriteByte(char)
			}

		case isSpace(char) && !inSingleQuote && !inDoubleQuote:
			if current.Len() > 0 || quoted {
				tokens = append(tokens, current.String())
				current.Reset()
			}
			quoted = false

		default:
			current.WriteByte(char)
		}
	}

	if current.Len() > 0 || quoted {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// openQuote reports whether input ends inside an unterminated quote.
func openQuote(input string) bool {
	var single, double bool
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case '\'':
			if !double {
				single = !single
			}
		case '"':
			if !single {
				double = !double
			}
		case '\\':
			if (single || double) && i+1 < len(input) && strings.IndexByte(`"'\`, input[i+1]) >= 0 {
				i++
			}
		}
	}
	return single || double
}
