package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type MoveCommand struct {
	Queue *radio.Queue
}

func (c *MoveCommand) Name() string        { return "move" }
func (c *MoveCommand) Description() string { return "Swap two tracks in the queue" }
func (c *MoveCommand) Group() string       { return "radio" }

func (c *MoveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "first",
				Description: "Position of the first track",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "second",
				Description: "Position of the second track",
				Required:    true,
			},
		},
	}
}

func (c *MoveCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	opts := optionMap(e)
	first := abs(int(opts["first"].IntValue()))
	second := abs(int(opts["second"].IntValue()))

	length, _, err := c.Queue.Snapshot(e.GuildID)
	if err != nil {
		return err
	}
	if first < 1 || first > length || second < 1 || second > length {
		return bot.RespondError(s, e, "Invalid index.")
	}

	if err := c.Queue.Swap(e.GuildID, first-1, second-1); err != nil {
		return err
	}

	desc := fmt.Sprintf("Swapped the tracks at positions %d and %d.", first, second)
	color := bot.ColorRadio
	if first == 1 || second == 1 {
		// Position 1 is the playing track; the swap happened but the node
		// keeps playing what it was given.
		desc += "\nPosition 1 is the track currently playing, so the change takes effect after it ends."
		color = bot.ColorWarning
	}
	return bot.RespondEmbed(s, e, bot.Embed("Queue", desc, color))
}
