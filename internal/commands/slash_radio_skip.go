package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type SkipCommand struct {
	Coordinator *radio.Coordinator
}

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skip the current track" }
func (c *SkipCommand) Group() string       { return "radio" }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *SkipCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	if err := c.Coordinator.Skip(e.GuildID); err != nil {
		if errors.Is(err, radio.ErrNotPlaying) {
			return bot.RespondError(s, e, err.Error())
		}
		return err
	}
	return bot.RespondEmbed(s, e, bot.Embed("Radio", "Track skipped.", bot.ColorRadio))
}
