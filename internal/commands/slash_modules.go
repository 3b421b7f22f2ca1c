package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/storage"
)

var qotdTimeFormat = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ModulesCommand toggles bot modules per guild and binds them to channels.
type ModulesCommand struct {
	Storage *storage.Storage
}

func (c *ModulesCommand) Name() string        { return "modules" }
func (c *ModulesCommand) Description() string { return "Enable or disable bot modules" }
func (c *ModulesCommand) Group() string       { return "system" }

func (c *ModulesCommand) SlashDefinition() *discordgo.ApplicationCommand {
	moduleOption := func() *discordgo.ApplicationCommandOption {
		opt := &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "module",
			Description: "The module",
			Required:    true,
		}
		for _, m := range storage.AllModules() {
			opt.Choices = append(opt.Choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  string(m),
				Value: string(m),
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
				Name:        "enable",
				Description: "Enable a module in a channel",
				Options: []*discordgo.ApplicationCommandOption{
					moduleOption(),
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "channel",
						Description: "Channel to bind the module to",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "time",
						Description: "Daily post time in UTC, HH:MM (qotd only)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "disable",
				Description: "Disable a module",
				Options:     []*discordgo.ApplicationCommandOption{moduleOption()},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "Show enabled modules",
			},
		},
	}
}

func (c *ModulesCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	sub := e.ApplicationCommandData().Options[0]
	switch sub.Name {
	case "enable":
		opts := subOptionMap(sub)
		m, err := storage.ParseModule(opts["module"].StringValue())
		if err != nil {
			return bot.RespondError(s, e, err.Error())
		}
		channel := opts["channel"].ChannelValue(s)
		if channel == nil {
			return bot.RespondError(s, e, "Unknown channel.")
		}

		cfg := storage.ModuleConfig{ChannelID: channel.ID}
		if opt, ok := opts["time"]; ok {
			if m != storage.ModuleQotd {
				return bot.RespondError(s, e, "Only the qotd module takes a time.")
			}
			if !qotdTimeFormat.MatchString(opt.StringValue()) {
				return bot.RespondError(s, e, "The time must be HH:MM in UTC.")
			}
			cfg.Time = opt.StringValue()
		}

		if err := c.Storage.EnableModule(e.GuildID, m, cfg); err != nil {
			return err
		}
		desc := fmt.Sprintf("The **%s** module is now enabled in <#%s>.", m, channel.ID)
		if cfg.Time != "" {
			desc += fmt.Sprintf(" Daily post at %s UTC.", cfg.Time)
		}
		return bot.RespondEmbed(s, e, bot.Embed("Modules", desc, bot.ColorInfo))

	case "disable":
		m, err := storage.ParseModule(subOptionMap(sub)["module"].StringValue())
		if err != nil {
			return bot.RespondError(s, e, err.Error())
		}
		if err := c.Storage.DisableModule(e.GuildID, m); err != nil {
			return err
		}
		desc := fmt.Sprintf("The **%s** module is now disabled.", m)
		return bot.RespondEmbed(s, e, bot.Embed("Modules", desc, bot.ColorInfo))

	case "list":
		var lines []string
		for _, m := range storage.AllModules() {
			cfg, err := c.Storage.ModuleConfigFor(e.GuildID, m)
			if err != nil {
				return err
			}
			if cfg == nil {
				lines = append(lines, fmt.Sprintf("**%s**: disabled", m))
				continue
			}
			line := fmt.Sprintf("**%s**: enabled in <#%s>", m, cfg.ChannelID)
			if cfg.Time != "" {
				line += fmt.Sprintf(", daily at %s UTC", cfg.Time)
			}
			lines = append(lines, line)
		}
		return bot.RespondEmbed(s, e, bot.Embed("Modules", strings.Join(lines, "\n"), bot.ColorInfo))
	}
	return bot.RespondError(s, e, "Unknown subcommand.")
}
