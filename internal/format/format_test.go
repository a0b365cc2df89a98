// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"&cRed &lbold", "Red bold"},
		{"&8&m----&r done", "---- done"},
		{"a && b", "a & b"},
		{"50& off", "50& off"},
		{"&zunknown", "&zunknown"},
		{"trailing &", "trailing &"},
		{"&CUpper", "Upper"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Strip(tc.in), tc.in)
	}
}

func TestRenderer_NoColor(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, false)
	assert.False(t, r.Color())
	assert.Equal(t, "Only players!", r.Render("&cOnly players!"))
}

func TestRenderer_Color(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, true)
	out := r.Render("&cRed&r plain")

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "Red")
	assert.Contains(t, out, " plain")
}
