// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the levelled console logger used across subroute.
//
// Messages are written through the standard log package with a "[name]"
// prefix and a level tag. Tags are coloured with lipgloss when colour is on.
package logging

import (
	"fmt"
	"io"
	"log"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Level is a log severity.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the tag text for the level.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "OK"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

var levelColors = map[Level]lipgloss.Color{
	LevelInfo:    lipgloss.Color("#55FFFF"),
	LevelSuccess: lipgloss.Color("#55FF55"),
	LevelWarning: lipgloss.Color("#FFFF55"),
	LevelError:   lipgloss.Color("#FF5555"),
}

// Logger writes levelled messages. It is safe for concurrent use.
type Logger struct {
	out  *log.Logger
	tags map[Level]string
	min  Level
}

// New creates a logger writing to w with a "[name] " prefix. When color is
// false the level tags are plain text.
func New(w io.Writer, name string, color bool) *Logger {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	tags := make(map[Level]string, len(levelColors))
	for lvl, c := range levelColors {
		tags[lvl] = r.NewStyle().Foreground(c).Bold(true).Render(lvl.String())
	}

	prefix := ""
	if name != "" {
		prefix = "[" + name + "] "
	}
	return &Logger{
		out:  log.New(w, prefix, log.LstdFlags),
		tags: tags,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, "", false)
}

// SetLevel drops messages below min.
func (l *Logger) SetLevel(min Level) {
	l.min = min
}

func (l *Logger) write(lvl Level, format string, args ...any) {
	if lvl < l.min {
		return
	}
	l.out.Printf("%s %s", l.tags[lvl], fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) { l.write(LevelInfo, format, args...) }

// Success logs a completed operation.
func (l *Logger) Success(format string, args ...any) { l.write(LevelSuccess, format, args...) }

// Warning logs a recoverable problem.
func (l *Logger) Warning(format string, args ...any) { l.write(LevelWarning, format, args...) }

// Error logs a failure.
func (l *Logger) Error(format string, args ...any) { l.write(LevelError, format, args...) }
