package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
)

type JumpCommand struct {
	Queue       *radio.Queue
	Coordinator *radio.Coordinator
}

func (c *JumpCommand) Name() string        { return "jump" }
func (c *JumpCommand) Description() string { return "Jump straight to a queued track" }
func (c *JumpCommand) Group() string       { return "radio" }

func (c *JumpCommand) SlashDefinition() *discordgo.ApplicationCommand {
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

func (c *JumpCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	position := abs(int(optionMap(e)["position"].IntValue()))

	length, tracks, err := c.Queue.Snapshot(e.GuildID)
	if err != nil {
		return err
	}
	if position < 1 || position > length {
		return bot.RespondError(s, e, "Invalid index.")
	}
	if !c.Coordinator.Playing(e.GuildID) {
		return bot.RespondError(s, e, radio.ErrNotPlaying.Error())
	}

	target := tracks[position-1]

	// Rotate the target to just behind the head, then stop the current
	// track; the track-end advance makes it the new head.
	if err := c.Queue.JumpTo(e.GuildID, position); err != nil {
		return err
	}
	if position > 1 {
		if err := c.Coordinator.Skip(e.GuildID); err != nil {
			return err
		}
	}

	desc := fmt.Sprintf("Now Playing: %s", trackLine(target))
	return bot.RespondEmbed(s, e, bot.Embed("Radio", desc, sourceColor(target.URL)))
}
