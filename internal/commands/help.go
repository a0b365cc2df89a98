// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/messages"
)

// HelpCategory is the category of the built-in help command.
const HelpCategory = "Help"

// newHelp builds the help command. Its optional category slot only accepts
// categories currently in use.
func (d *Dispatcher) newHelp() *Command {
	return &Command{
		Name:        "help",
		Description: "Shows the available commands",
		Category:    HelpCategory,
		Args: []args.Slot{{
			Name:        "category",
			Type:        args.String{},
			Options:     func() []string { return d.registry.Categories() },
			Description: "Only list this category",
		}},
		Handler: d.runHelp,
	}
}

func (d *Dispatcher) runHelp(ctx *Context) error {
	msgs := d.cfg.Messages
	visible := d.visible(ctx.Caller)

	commandLine := func(cmd *Command) string {
		return messages.Render(msgs.HelpCommandFormat, messages.Vars{
			messages.BaseCommand:    d.cfg.Name,
			messages.SubCommandName: cmd.Name,
			messages.SubCommandDesc: d.describe(cmd),
		})
	}

	if category, ok := args.Value[string](ctx.Args, "category"); ok {
		var lines []string
		for _, cmd := range visible {
			if strings.EqualFold(cmd.CategoryName(), category) {
				lines = append(lines, commandLine(cmd))
			}
		}
		if len(lines) == 0 {
			ctx.Reply(msgs.Prefix + messages.Render(msgs.UnknownCategory, messages.Vars{messages.Category: category}))
			return nil
		}
		ctx.Reply(messages.Render(msgs.HelpCategoryHeader, messages.Vars{messages.Category: category}))
		for _, line := range lines {
			ctx.Reply(line)
		}
		return nil
	}

	ctx.Reply(messages.Render(msgs.HelpHeader, messages.Vars{messages.PluginName: d.cfg.PluginName}))

	if len(visible) <= d.cfg.HelpPageSize {
		for _, cmd := range visible {
			ctx.Reply(commandLine(cmd))
		}
		return nil
	}

	seen := make(map[string]bool)
	for _, cmd := range visible {
		cat := cmd.CategoryName()
		if seen[cat] {
			continue
		}
		seen[cat] = true
		ctx.Reply(messages.Render(msgs.HelpCategoryFormat, messages.Vars{
			messages.BaseCommand:  d.cfg.Name,
			messages.CommandGroup: cat,
		}))
	}
	return nil
}
