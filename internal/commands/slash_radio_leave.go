package commands

import (
	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type LeaveCommand struct {
	Coordinator *radio.Coordinator
}

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "Disconnect the radio from voice" }
func (c *LeaveCommand) Group() string       { return "radio" }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *LeaveCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	if !c.Coordinator.Connected(e.GuildID) {
		return bot.RespondError(s, e, radio.ErrNotConnected.Error())
	}

	c.Coordinator.Teardown(e.GuildID)
	return bot.RespondEmbed(s, e, bot.Embed("Radio", "Disconnected.", bot.ColorRadio))
}
