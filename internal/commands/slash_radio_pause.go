package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type PauseCommand struct {
	Coordinator *radio.Coordinator
}

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause or resume playback" }
func (c *PauseCommand) Group() string       { return "radio" }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *PauseCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	paused, err := c.Coordinator.TogglePause(e.GuildID)
	if err != nil {
		if errors.Is(err, radio.ErrNotConnected) {
			return bot.RespondError(s, e, err.Error())
		}
		return err
	}

	desc := "Playback resumed."
	if paused {
		desc = "Playback paused."
	}
	return bot.RespondEmbed(s, e, bot.Embed("Radio", desc, bot.ColorRadio))
}
