// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/config"
	"github.com/jeranaias/subroute/internal/sender"
)

// metaCommands are the shell's own commands.
var metaCommands = []string{".join", ".leave", ".as", ".console", ".who", ".reload", ".help", ".quit"}

// Session feeds command lines to an App as a chosen caller.
type Session struct {
	app    *App
	out    io.Writer
	caller sender.Caller
}

// NewSession creates a session acting as the console. Shell output goes to
// out.
func NewSession(app *App, out io.Writer) *Session {
	return &Session{app: app, out: out, caller: app.Server.Console()}
}

// Caller returns the caller lines are executed as.
func (s *Session) Caller() sender.Caller {
	return s.caller
}

// Prompt returns the prompt for the current caller.
func (s *Session) Prompt() string {
	return s.caller.Name() + "> "
}

// Handle runs one line and reports whether the session should end.
func (s *Session) Handle(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.meta(line)
	}
	s.app.Server.Execute(s.caller, line)
	return false
}

func (s *Session) meta(line string) bool {
	fields := strings.Fields(line)
	name, rest := fields[0], fields[1:]
	arg := ""
	if len(rest) > 0 {
		arg = rest[0]
	}
	srv := s.app.Server

	switch strings.ToLower(name) {
	case ".quit", ".exit":
		return true

	case ".join":
		if arg == "" {
			s.println("usage: .join NAME")
			return false
		}
		p, err := srv.Join(arg)
		if err != nil {
			s.println(err.Error())
			return false
		}
		s.caller = p

	case ".leave":
		if arg == "" {
			s.println("usage: .leave NAME")
			return false
		}
		if !srv.Leave(arg) {
			s.println(arg + " is not online")
			return false
		}
		if strings.EqualFold(s.caller.Name(), arg) {
			s.caller = srv.Console()
		}

	case ".as":
		p, ok := srv.Player(arg)
		if !ok {
			s.println(arg + " is not online")
			return false
		}
		s.caller = p

	case ".console":
		s.caller = srv.Console()

	case ".who":
		players := srv.Players()
		names := make([]string, len(players))
		for i, p := range players {
			names[i] = p.Name()
		}
		s.println(fmt.Sprintf("%d online: %s", len(names), strings.Join(names, ", ")))

	case ".reload":
		if err := s.app.Reload(); err != nil {
			s.println("reload failed: " + err.Error())
		} else {
			s.println("configuration reloaded")
		}

	case ".help":
		s.println("shell commands: " + strings.Join(metaCommands, " "))

	default:
		s.println("unknown shell command " + name + " (try .help)")
	}
	return false
}

func (s *Session) println(msg string) {
	fmt.Fprintln(s.out, msg)
}

// Complete returns full-line completions for a partial line.
func (s *Session) Complete(line string) []string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, ".") && !strings.ContainsAny(trimmed, " \t") {
		return args.FilterPrefix(metaCommands, trimmed)
	}
	if strings.HasPrefix(trimmed, ".") {
		return s.completeWith(line, s.metaSuggestions(trimmed))
	}
	return s.completeWith(line, s.app.Server.Complete(s.caller, line))
}

func (s *Session) metaSuggestions(line string) []string {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".as", ".leave":
		var names []string
		for _, p := range s.app.Server.Players() {
			names = append(names, p.Name())
		}
		partial := ""
		if len(fields) > 1 && !strings.HasSuffix(line, " ") {
			partial = fields[len(fields)-1]
		}
		return args.FilterPrefix(names, partial)
	}
	return nil
}

// completeWith replaces the word being typed with each suggestion.
func (s *Session) completeWith(line string, suggestions []string) []string {
	if len(suggestions) == 0 {
		return nil
	}
	head := line[:strings.LastIndexAny(line, " \t")+1]
	out := make([]string, len(suggestions))
	for i, sug := range suggestions {
		if strings.ContainsAny(sug, " \t") {
			sug = `"` + sug + `"`
		}
		out[i] = head + sug
	}
	return out
}

// =============================================================================
// INPUT LOOPS
// =============================================================================

// Run executes lines from r until EOF or .quit. With echo set each line is
// printed after the prompt, so script transcripts read like a session.
func (s *Session) Run(r io.Reader, echo bool) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if echo && strings.TrimSpace(line) != "" {
			s.println(s.Prompt() + line)
		}
		if s.Handle(line) {
			return nil
		}
	}
	return scanner.Err()
}

// RunInteractive reads lines from the terminal with history and tab
// completion.
func (s *Session) RunInteractive() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetTabCompletionStyle(liner.TabPrints)
	line.SetCompleter(s.Complete)

	history := historyPath()
	if f, err := os.Open(history); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, history)

	for {
		input, err := line.Prompt(s.Prompt())
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				s.println("")
				return nil
			}
			return err
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if s.Handle(input) {
			return nil
		}
	}
}

func historyPath() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "history")
}

// saveHistory persists command history with owner-only permissions.
func saveHistory(line *liner.State, path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
