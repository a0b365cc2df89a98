// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package format translates '&' colour codes in messages into terminal
// styles.
//
// Codes follow the usual chat convention: &0-&9 and &a-&f select a colour
// and reset formatting, &l bold, &m strikethrough, &n underline, &o italic,
// &k obfuscated (rendered as faint) and &r resets. "&&" is a literal '&'.
package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Marker introduces a colour code.
const Marker = '&'

var palette = map[byte]lipgloss.Color{
	'0': "#000000",
	'1': "#0000AA",
	'2': "#00AA00",
	'3': "#00AAAA",
	'4': "#AA0000",
	'5': "#AA00AA",
	'6': "#FFAA00",
	'7': "#AAAAAA",
	'8': "#555555",
	'9': "#5555FF",
	'a': "#55FF55",
	'b': "#55FFFF",
	'c': "#FF5555",
	'd': "#FF55FF",
	'e': "#FFFF55",
	'f': "#FFFFFF",
}

func isCode(b byte) bool {
	switch b {
	case 'k', 'l', 'm', 'n', 'o', 'r':
		return true
	}
	_, ok := palette[b]
	return ok
}

type state struct {
	color                                    lipgloss.Color
	bold, strike, underline, italic, obscure bool
}

type segment struct {
	text string
	st   state
}

// parse splits s into runs that share one style.
func parse(s string) []segment {
	var (
		out []segment
		cur state
		buf strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, segment{text: buf.String(), st: cur})
			buf.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != Marker || i+1 >= len(s) {
			buf.WriteByte(s[i])
			continue
		}
		code := lower(s[i+1])
		if code == Marker {
			buf.WriteByte(Marker)
			i++
			continue
		}
		if !isCode(code) {
			buf.WriteByte(s[i])
			continue
		}
		flush()
		i++
		switch code {
		case 'l':
			cur.bold = true
		case 'm':
			cur.strike = true
		case 'n':
			cur.underline = true
		case 'o':
			cur.italic = true
		case 'k':
			cur.obscure = true
		case 'r':
			cur = state{}
		default:
			cur = state{color: palette[code]}
		}
	}
	flush()
	return out
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Strip removes every colour code from s.
func Strip(s string) string {
	if strings.IndexByte(s, Marker) < 0 {
		return s
	}
	var b strings.Builder
	for _, seg := range parse(s) {
		b.WriteString(seg.text)
	}
	return b.String()
}

// Renderer turns coded messages into styled terminal text.
type Renderer struct {
	r     *lipgloss.Renderer
	color bool
}

// NewRenderer creates a renderer for w. With color false, Render behaves
// like Strip.
func NewRenderer(w io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{r: r, color: color}
}

// Color reports whether the renderer emits escape sequences.
func (r *Renderer) Color() bool {
	return r.color
}

// Render translates the colour codes in s.
func (r *Renderer) Render(s string) string {
	if !r.color {
		return Strip(s)
	}
	var b strings.Builder
	for _, seg := range parse(s) {
		st := seg.st
		if st == (state{}) {
			b.WriteString(seg.text)
			continue
		}
		style := r.r.NewStyle().
			Bold(st.bold).
			Strikethrough(st.strike).
			Underline(st.underline).
			Italic(st.italic).
			Faint(st.obscure)
		if st.color != "" {
			style = style.Foreground(st.color)
		}
		b.WriteString(style.Render(seg.text))
	}
	return b.String()
}
