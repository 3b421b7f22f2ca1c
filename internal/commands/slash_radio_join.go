package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type JoinCommand struct {
	Coordinator *radio.Coordinator
}

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "Summon the radio to your voice channel" }
func (c *JoinCommand) Group() string       { return "radio" }

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *JoinCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	channelID := userVoiceChannel(s, e.GuildID, invokerID(e))
	if channelID == "" {
		return bot.RespondError(s, e, "You need to be in a voice channel first.")
	}

	if err := c.Coordinator.Join(e.GuildID, channelID, e.ChannelID); err != nil {
		if errors.Is(err, radio.ErrAlreadyConnected) {
			return bot.RespondError(s, e, "I'm already playing in another voice channel. Use /leave first.")
		}
		return bot.RespondError(s, e, "Failed to join the voice channel.")
	}

	return bot.RespondEmbed(s, e, bot.Embed("Radio", "Connected to your voice channel.", bot.ColorRadio))
}
