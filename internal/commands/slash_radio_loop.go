package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
	"atlas-bot/internal/storage"
)

type LoopCommand struct {
	Queue *radio.Queue
}

func (c *LoopCommand) Name() string        { return "loop" }
func (c *LoopCommand) Description() string { return "Cycle or set the loop mode" }
func (c *LoopCommand) Group() string       { return "radio" }

func (c *LoopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "mode",
				Description: "Loop mode (omit to cycle to the next one)",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Playlist", Value: string(storage.LoopPlaylist)},
					{Name: "Track", Value: string(storage.LoopTrack)},
					{Name: "Disabled", Value: string(storage.LoopNone)},
				},
			},
		},
	}
}

// loopLabel is the human name of a loop mode, shared with the control view.
func loopLabel(mode storage.LoopMode) string {
	switch mode {
	case storage.LoopTrack:
		return "Track"
	case storage.LoopNone:
		return "Disabled"
	default:
		return "Playlist"
	}
}

func (c *LoopCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	var mode storage.LoopMode
	if opt, ok := optionMap(e)["mode"]; ok {
		mode = storage.LoopMode(opt.StringValue())
		if err := c.Queue.SetLoop(e.GuildID, mode); err != nil {
			return err
		}
	} else {
		if mode, err = c.Queue.CycleLoop(e.GuildID); err != nil {
			return err
		}
	}

	desc := fmt.Sprintf("Loop mode is now **%s**.", loopLabel(mode))
	return bot.RespondEmbed(s, e, bot.Embed("Radio", desc, bot.ColorRadio))
}
