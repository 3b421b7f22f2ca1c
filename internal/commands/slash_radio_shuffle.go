package commands

import (
	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type ShuffleCommand struct {
	Queue       *radio.Queue
	Coordinator *radio.Coordinator
}

func (c *ShuffleCommand) Name() string        { return "shuffle" }
func (c *ShuffleCommand) Description() string { return "Shuffle the queue" }
func (c *ShuffleCommand) Group() string       { return "radio" }

func (c *ShuffleCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *ShuffleCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	if err := c.Queue.Shuffle(e.GuildID); err != nil {
		return err
	}

	// The playing track is shuffled along with everything else, so stop it
	// and let the track-end advance pick up the new head.
	if c.Coordinator.Playing(e.GuildID) {
		if err := c.Coordinator.Skip(e.GuildID); err != nil {
			return err
		}
	}
	return bot.RespondEmbed(s, e, bot.Embed("Queue", "The queue has been shuffled.", bot.ColorRadio))
}
