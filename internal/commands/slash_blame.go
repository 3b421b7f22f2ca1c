package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/pager"
	"atlas-bot/internal/storage"
)

// BlameCommand records who broke what and keeps score.
type BlameCommand struct {
	Storage *storage.Storage
	Pagers  *pager.Registry
}

func (c *BlameCommand) Name() string        { return "blame" }
func (c *BlameCommand) Description() string { return "Blame someone for something" }
func (c *BlameCommand) Group() string       { return "blame" }

func (c *BlameCommand) SlashDefinition() *discordgo.ApplicationCommand {
	userOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "user",
		Description: "Who to blame",
		Required:    true,
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Record a blame",
				Options: []*discordgo.ApplicationCommandOption{
					userOption,
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "reason",
						Description: "What they did",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List everything a user has been blamed for",
				Options:     []*discordgo.ApplicationCommandOption{userOption},
			},
		},
	}
}

func (c *BlameCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	sub := e.ApplicationCommandData().Options[0]
	target := subOptionMap(sub)["user"].UserValue(s)
	if target == nil {
		return bot.RespondError(s, e, "Unknown user.")
	}

	switch sub.Name {
	case "add":
		reason := subOptionMap(sub)["reason"].StringValue()
		if err := c.Storage.PushBlame(e.GuildID, target.ID, invokerID(e), reason); err != nil {
			return err
		}
		count, err := c.Storage.BlameCount(e.GuildID, target.ID)
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("<@%s> has been blamed for:\n> %s\n\nThat makes %d in total.",
			target.ID, reason, count)
		return bot.RespondEmbed(s, e, bot.Embed("Blame", desc, bot.ColorInfo))

	case "list":
		entries, err := c.Storage.Blames(e.GuildID, target.ID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			desc := fmt.Sprintf("<@%s> has never been blamed. Impressive.", target.ID)
			return bot.RespondEmbed(s, e, bot.Embed("Blame", desc, bot.ColorInfo))
		}

		// Rows are built lazily so long rap sheets only render the pages
		// someone actually looks at.
		i := 0
		source := pager.Source(func() (pager.Pair, bool) {
			if i >= len(entries) {
				return pager.Pair{}, false
			}
			entry := entries[i]
			i++
			return pager.Pair{
				Name:  fmt.Sprintf("%d.", i),
				Value: fmt.Sprintf("%s\nblamed by <@%s>", entry.Reason, entry.Blamer),
			}, true
		})

		title := fmt.Sprintf("Blames against %s", target.Username)
		p := pager.New(source, len(entries), pager.DefaultPageSize)
		return bindPagedReply(s, e, c.Pagers, p, title, "", bot.ColorInfo)
	}
	return bot.RespondError(s, e, "Unknown subcommand.")
}
