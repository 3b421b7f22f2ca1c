package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/storage"
)

// RolesCommand binds Discord roles to the bot's permission tiers.
type RolesCommand struct {
	Storage *storage.Storage
}

func (c *RolesCommand) Name() string        { return "roles" }
func (c *RolesCommand) Description() string { return "Manage permission role bindings" }
func (c *RolesCommand) Group() string       { return "system" }

func (c *RolesCommand) SlashDefinition() *discordgo.ApplicationCommand {
	roleTypeOption := func() *discordgo.ApplicationCommandOption {
		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "Permission tier",
			Required:    true,
		}
		for _, r := range storage.AllRoles() {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  string(r),
				Value: string(r),
			})
		}
		return opt
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Bind a Discord role to a permission tier",
				Options: []*discordgo.ApplicationCommandOption{
					roleTypeOption(),
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "role",
						Description: "The Discord role to bind",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "remove",
				Description: "Unbind a permission tier",
				Options:     []*discordgo.ApplicationCommandOption{roleTypeOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show current bindings",
			},
		},
	}
}

func (c *RolesCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	sub := e.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "set":
		opts := subOptionMap(sub)
		role, err := storage.ParseRole(opts["type"].StringValue())
		if err != nil {
			return bot.RespondError(s, e, err.Error())
		}
		bound := opts["role"].RoleValue(s, e.GuildID)
		if bound == nil {
			return bot.RespondError(s, e, "Unknown role.")
		}
		if err := c.Storage.SetRole(e.GuildID, role, bound.ID); err != nil {
			return err
		}
		desc := fmt.Sprintf("Bound <@&%s> to the **%s** tier (level %d).", bound.ID, role, role.Level())
		return bot.RespondEmbed(s, e, bot.Embed("Roles", desc, bot.ColorInfo))

	case "remove":
		role, err := storage.ParseRole(subOptionMap(sub)["type"].StringValue())
		if err != nil {
			return bot.RespondError(s, e, err.Error())
		}
		prev, err := c.Storage.RemoveRole(e.GuildID, role)
		if err != nil {
			return err
		}
		if prev == "" {
			return bot.RespondError(s, e, fmt.Sprintf("The %s tier isn't bound to anything.", role))
		}
		desc := fmt.Sprintf("Unbound <@&%s> from the **%s** tier.", prev, role)
		return bot.RespondEmbed(s, e, bot.Embed("Roles", desc, bot.ColorInfo))

	case "list":
		bindings, err := c.Storage.RoleBindings(e.GuildID)
		if err != nil {
			return err
		}
		var lines []string
		for _, role := range storage.AllRoles() {
			if id, ok := bindings[role]; ok {
				lines = append(lines, fmt.Sprintf("**%s** (level %d): <@&%s>", role, role.Level(), id))
			}
		}
		if len(lines) == 0 {
			return bot.RespondEmbed(s, e, bot.Embed("Roles", "No bindings set.", bot.ColorInfo))
		}
		return bot.RespondEmbed(s, e, bot.Embed("Roles", strings.Join(lines, "\n"), bot.ColorInfo))
	}
	return bot.RespondError(s, e, "Unknown subcommand.")
}
