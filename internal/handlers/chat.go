// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package handlers

import (
	"time"

	"github.com/jeranaias/subroute/internal/args"
	"github.com/jeranaias/subroute/internal/commands"
	"github.com/jeranaias/subroute/internal/util"
)

// msgCooldown throttles private messages per sender.
const msgCooldown = 3 * time.Second

func msgCommand(right string, deps Deps) *commands.Command {
	return &commands.Command{
		Name:        "msg",
		Aliases:     []string{"tell", "w"},
		Description: "Sends a private message",
		Category:    CategoryChat,
		Right:       right,
		Cooldown:    msgCooldown,
		Direct:      true,
		Args: []args.Slot{
			{Name: "player", Type: args.OnlinePlayer{Players: deps.Players}, Required: true},
			{Name: "message", Type: args.Text{}, Required: true, Variadic: true},
		},
		Handler: func(ctx *commands.Context) error {
			if left, muted := deps.Mutes.Remaining(ctx.Caller.ID()); muted {
				ctx.Replyf("&cYou are muted for another %s.", util.FormatDurationLong(left))
				return nil
			}

			to := args.ValueOr(ctx.Args, "player", args.Player{})
			text := args.ValueOr(ctx.Args, "message", "")
			if to.ID == ctx.Caller.ID() {
				ctx.Reply("&cYou cannot message yourself.")
				return nil
			}
			if !deps.Mailer.Deliver(to.ID, "&d["+ctx.Caller.Name()+" -> me] &f"+text) {
				ctx.Replyf("&c%s is no longer online.", to.Name)
				return nil
			}
			ctx.Reply("&d[me -> " + to.Name + "] &f" + text)
			return nil
		},
	}
}
