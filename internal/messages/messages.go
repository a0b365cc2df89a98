// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package messages holds the user-facing message templates and the
// placeholder interpolation applied before delivery.
//
// Templates may carry '&' colour codes; translating those is left to the
// caller that finally renders the text.
package messages

import "strings"

// Placeholder keys understood by the default templates.
const (
	PluginName     = "PLUGIN_NAME"
	BaseCommand    = "BASE_CMD"
	Category       = "CATEGORY"
	CommandGroup   = "CMD_GROUP"
	SubCommandName = "SUB_CMD_NAME"
	SubCommandDesc = "SUB_CMD_DESCRIPTION"
	Usage          = "USAGE"
	Argument       = "ARG"
	Time           = "TIME"
)

// Messages is the set of templates used by the dispatcher.
type Messages struct {
	Prefix               string `toml:"prefix"`
	HelpHeader           string `toml:"help_header"`
	HelpCategoryHeader   string `toml:"help_category_header"`
	HelpCategoryFormat   string `toml:"help_category_format"`
	HelpCommandFormat    string `toml:"help_command_format"`
	NoPermission         string `toml:"no_permission"`
	PlayersOnly          string `toml:"players_only"`
	InvalidCommand       string `toml:"invalid_command"`
	NotEnoughArgs        string `toml:"not_enough_args"`
	MissingArgument      string `toml:"missing_argument"`
	ArgumentNoPermission string `toml:"argument_no_permission"`
	Cooldown             string `toml:"cooldown"`
	UnknownCategory      string `toml:"unknown_category"`
	InternalError        string `toml:"internal_error"`
}

// Default returns the built-in templates.
func Default() Messages {
	return Messages{
		Prefix:               "&f&lSubroute &8» ",
		HelpHeader:           "&8&m--------------&8[ &a&l{PLUGIN_NAME} &8]&m--------------",
		HelpCategoryHeader:   "&8&m--------------&8[ &a&l{CATEGORY} &2&lHelp &8]&m--------------",
		HelpCategoryFormat:   "&a/{BASE_CMD} help {CMD_GROUP} &f- &7Shows {CMD_GROUP} commands",
		HelpCommandFormat:    "&a/{BASE_CMD} {SUB_CMD_NAME} &f- &7{SUB_CMD_DESCRIPTION}",
		NoPermission:         "&cYou don't have permission to use this!",
		PlayersOnly:          "&cOnly players can use this command!",
		InvalidCommand:       "&cThat command doesn't exist! Type /{BASE_CMD} for help.",
		NotEnoughArgs:        "&cNot enough args! Use: &4/{BASE_CMD} {SUB_CMD_NAME} {USAGE}",
		MissingArgument:      "&cMissing required argument: {ARG}",
		ArgumentNoPermission: "&cYou don't have permission to use argument '{ARG}'.",
		Cooldown:             "&cYou must wait &f{TIME}&c seconds before using this command again.",
		UnknownCategory:      "&cUnknown help category '{CATEGORY}'.",
		InternalError:        "&cAn internal error occurred while running this command.",
	}
}

// FillDefaults replaces empty templates with their defaults.
func (m *Messages) FillDefaults() {
	d := Default()
	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&m.Prefix, d.Prefix)
	fill(&m.HelpHeader, d.HelpHeader)
	fill(&m.HelpCategoryHeader, d.HelpCategoryHeader)
	fill(&m.HelpCategoryFormat, d.HelpCategoryFormat)
	fill(&m.HelpCommandFormat, d.HelpCommandFormat)
	fill(&m.NoPermission, d.NoPermission)
	fill(&m.PlayersOnly, d.PlayersOnly)
	fill(&m.InvalidCommand, d.InvalidCommand)
	fill(&m.NotEnoughArgs, d.NotEnoughArgs)
	fill(&m.MissingArgument, d.MissingArgument)
	fill(&m.ArgumentNoPermission, d.ArgumentNoPermission)
	fill(&m.Cooldown, d.Cooldown)
	fill(&m.UnknownCategory, d.UnknownCategory)
	fill(&m.InternalError, d.InternalError)
}

// Vars maps placeholder keys to their values.
type Vars map[string]string

// Render substitutes every {KEY} in template with vars[KEY]. Unknown
// placeholders are left untouched.
func Render(template string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(template, "{") {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
