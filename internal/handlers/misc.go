// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/commands"
)

func worldCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "world",
		Aliases:     []string{"goto"},
		Description: "Moves you to another world",
		Category:    CategoryWorld,
		Right:       right,
		PlayerOnly:  true,
		Args: []args.Slot{
			{Name: "world", Type: args.World{Worlds: deps.Worlds}, Required: true},
		},
		Handler: func(ctx *commands.Context) error {
			ctx.Replyf("&aTeleported to &f%s&a.", args.ValueOr(ctx.Args, "world", ""))
			return nil
		},
	}
}

func rollCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "roll",
		Description: "Rolls a die",
		Category:    CategoryFun,
		Right:       right,
		Cooldown:    time.Second,
		Args: []args.Slot{
			{Name: "sides", Type: args.PositiveInteger{}, Default: "6",
				Suggestions: func() []string { return []string{"4", "6", "8", "10", "12", "20", "100"} }},
		},
		Flags: []string{"-public"},
		Handler: func(ctx *commands.Context) error {
			sides := args.ValueOr(ctx.Args, "sides", 6)
			n := deps.Roll(sides) + 1
			if ctx.Args.Flag("-public") {
				deps.Mailer.Broadcast(fmt.Sprintf("&e%s rolled &f%d &e(1-%d)", ctx.Caller.Name(), n, sides))
				return nil
			}
			ctx.Replyf("&eYou rolled &f%d &e(1-%d)", n, sides)
			return nil
		},
	}
}

// testCommand exercises every kind of slot and echoes what was bound.
func testCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "test",
		Aliases:     []string{"t"},
		Description: "Echoes parsed arguments",
		Category:    CategoryDebug,
		Right:       right,
		Args: []args.Slot{
			{Name: "arg0", Type: args.String{}, Required: true, Options: func() []string { return []string{"d1", "d2"} }},
			{Name: "arg1", Type: args.OnlinePlayer{Players: deps.Players}, Required: true},
			{Name: "arg2", Type: args.Integer{}, Required: true},
			{Name: "arg3", Type: args.Boolean{}},
			{Name: "arg4", Type: args.Text{}, Variadic: true},
		},
		Flags: []string{"-s"},
		Handler: func(ctx *commands.Context) error {
			var parts []string
			for _, name := range ctx.Args.Names() {
				v, _ := ctx.Args.Get(name)
				if p, ok := v.(args.Player); ok {
					v = p.Name
				}
				parts = append(parts, fmt.Sprintf("%s=%v", name, v))
			}
			for _, flag := range ctx.Args.Flags() {
				parts = append(parts, flag)
			}
			ctx.Reply("&7" + strings.Join(parts, " "))
			return nil
		},
	}
}

func reloadCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "reload",
		Description: "Reloads the configuration",
		Category:    CategoryAdmin,
		Right:       right,
		Hidden:      deps.Reload == nil,
		Handler: func(ctx *commands.Context) error {
			if deps.Reload == nil {
				ctx.Reply("&cReloading is not available.")
				return nil
			}
			c := ctx.Caller
			go func() {
				if err := deps.Reload(); err != nil {
					c.Send("&cReload failed: " + err.Error())
					return
				}
				c.Send("&aConfiguration reloaded.")
			}()
			ctx.Reply("&eReloading...")
			return nil
		},
	}
}
