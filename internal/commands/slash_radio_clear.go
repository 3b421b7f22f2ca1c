package commands

import (
	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type ClearCommand struct {
	Queue *radio.Queue
}

func (c *ClearCommand) Name() string        { return "clear" }
func (c *ClearCommand) Description() string { return "Empty the queue" }
func (c *ClearCommand) Group() string       { return "radio" }

func (c *ClearCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *ClearCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	if err := c.Queue.Clear(e.GuildID); err != nil {
		return err
	}
	return bot.RespondEmbed(s, e, bot.Embed("Queue", "The queue has been cleared.", bot.ColorRadio))
}
