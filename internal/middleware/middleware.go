// Package middleware provides the command decorators applied at
// registration time.
package middleware

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/storage"
)

// unpack pulls the common fields out of either context flavor.
func unpack(ctx interface{}) (*discordgo.Session, *discordgo.InteractionCreate, *storage.Storage, bool) {
	switch c := ctx.(type) {
	case *command.SlashContext:
		return c.Session, c.Event, c.Storage, true
	case *command.ComponentContext:
		return c.Session, c.Event, c.Storage, true
	default:
		return nil, nil, nil, false
	}
}

func run(cmd command.Command, ctx interface{}) error {
	if cc, ok := ctx.(*command.ComponentContext); ok {
		if ch, isComp := cmd.(command.ComponentInteractionHandler); isComp {
			return ch.Component(cc)
		}
		return nil
	}
	return cmd.Run(ctx)
}

// WithGuildOnly rejects interactions that arrive outside a guild.
func WithGuildOnly() command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx interface{}) error {
				s, e, _, ok := unpack(ctx)
				if !ok {
					return fmt.Errorf("unknown context type")
				}
				if e.GuildID == "" {
					return bot.RespondError(s, e, "This command only works in a server.")
				}
				return run(cmd, ctx)
			},
		}
	}
}

// WithModuleCheck requires the module to be enabled for the guild and, when
// the module is bound to a channel, the interaction to come from that channel.
func WithModuleCheck(m storage.Module) command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx interface{}) error {
				s, e, st, ok := unpack(ctx)
				if !ok {
					return fmt.Errorf("unknown context type")
				}

				cfg, err := st.ModuleConfigFor(e.GuildID, m)
				if err != nil {
					return err
				}
				if cfg == nil {
					return bot.RespondError(s, e, fmt.Sprintf("The %s module is not enabled on this server.", m))
				}
				if cfg.ChannelID != "" && cfg.ChannelID != e.ChannelID {
					return bot.RespondError(s, e, fmt.Sprintf("The %s module only works in <#%s>.", m, cfg.ChannelID))
				}
				return run(cmd, ctx)
			},
		}
	}
}

// WithLevelCheck requires the invoking member to hold at least the given
// permission level.
func WithLevelCheck(level int) command.Middleware {
	return func(cmd command.Command) command.Command {
		return &command.WrappedCommand{
			Command: cmd,
			Wrap: func(ctx interface{}) error {
				s, e, st, ok := unpack(ctx)
				if !ok {
					return fmt.Errorf("unknown context type")
				}
				if e.Member == nil {
					return bot.RespondError(s, e, "This command only works in a server.")
				}

				isAdmin := e.Member.Permissions&discordgo.PermissionAdministrator != 0
				have, err := st.PermissionLevel(e.GuildID, e.Member.Roles, isAdmin)
				if err != nil {
					return err
				}
				if have < level {
					return bot.RespondError(s, e, "You don't have permission to use this command.")
				}
				return run(cmd, ctx)
			},
		}
	}
}
