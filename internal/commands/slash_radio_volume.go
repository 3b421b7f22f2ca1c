package commands

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/radio"
)

// VolumeCommand sets the volume directly or, without an argument, posts the
// +/- volume widget.
type VolumeCommand struct {
	Coordinator *radio.Coordinator
}

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Show or set the playback volume" }
func (c *VolumeCommand) Group() string       { return "radio" }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "level",
				Description: "Volume from 0 to 100",
			},
		},
	}
}

func volumeEmbed(volume int) *discordgo.MessageEmbed {
	return bot.Embed("Volume", fmt.Sprintf("Current volume: **%d%%**", volume), bot.ColorRadio)
}

func volumeComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "-10",
					Style:    discordgo.SecondaryButton,
					CustomID: "volume:down",
				},
				discordgo.Button{
					Label:    "+10",
					Style:    discordgo.SecondaryButton,
					CustomID: "volume:up",
				},
			},
		},
	}
}

func (c *VolumeCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	sess, ok := c.Coordinator.Session(e.GuildID)
	if !ok {
		return bot.RespondError(s, e, radio.ErrNotConnected.Error())
	}

	if opt, present := optionMap(e)["level"]; present {
		applied, err := c.Coordinator.SetVolume(e.GuildID, int(opt.IntValue()))
		if err != nil {
			return err
		}
		return bot.RespondEmbed(s, e, volumeEmbed(applied))
	}

	return bot.RespondEmbedView(s, e, volumeEmbed(sess.Volume), volumeComponents())
}

func (c *VolumeCommand) Component(ctx *command.ComponentContext) error {
	s, e := ctx.Session, ctx.Event

	sess, ok := c.Coordinator.Session(e.GuildID)
	if !ok {
		return bot.RespondDefer(s, e)
	}
	if msg := controlAuthError(s, ctx.Storage, e, sess.VoiceChannelID); msg != "" {
		return bot.RespondError(s, e, msg)
	}

	delta := 10
	if e.MessageComponentData().CustomID == "volume:down" {
		delta = -10
	}

	applied, err := c.Coordinator.AdjustVolume(e.GuildID, delta)
	if err != nil {
		if errors.Is(err, radio.ErrNotConnected) {
			return bot.RespondDefer(s, e)
		}
		return err
	}
	return bot.RespondUpdate(s, e, volumeEmbed(applied), volumeComponents())
}
