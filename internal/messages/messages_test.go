// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	got := Render(Default().HelpCategoryFormat, Vars{BaseCommand: "rc", CommandGroup: "Admin"})
	assert.Equal(t, "&a/rc help Admin &f- &7Shows Admin commands", got)
}

func TestRender_LeavesUnknownPlaceholders(t *testing.T) {
	assert.Equal(t, "hi {WHO}", Render("hi {WHO}", Vars{Time: "1.0"}))
	assert.Equal(t, "plain", Render("plain", nil))
}

func TestFillDefaults(t *testing.T) {
	m := Messages{NoPermission: "nope"}
	m.FillDefaults()

	assert.Equal(t, "nope", m.NoPermission)
	assert.Equal(t, Default().Cooldown, m.Cooldown)
	assert.NotEmpty(t, m.InternalError)
}
