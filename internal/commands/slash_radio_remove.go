package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type RemoveCommand struct {
	Queue *radio.Queue
}

func (c *RemoveCommand) Name() string        { return "remove" }
func (c *RemoveCommand) Description() string { return "Remove a track from the queue" }
func (c *RemoveCommand) Group() string       { return "radio" }

func (c *RemoveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "position",
				Description: "Queue position as shown by /queue",
				Required:    true,
			},
		},
	}
}

func (c *RemoveCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	position := abs(int(optionMap(e)["position"].IntValue()))
	removed, err := c.Queue.RemoveAt(e.GuildID, position-1)
	if err != nil {
		return err
	}
	if removed == nil {
		return bot.RespondError(s, e, "Invalid index.")
	}

	desc := fmt.Sprintf("Removed %s from the queue.", trackLine(*removed))
	return bot.RespondEmbed(s, e, bot.Embed("Queue", desc, bot.ColorRadio))
}
