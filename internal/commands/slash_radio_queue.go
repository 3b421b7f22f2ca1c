package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/pager"
	"atlas-bot/internal/radio"
)

type QueueCommand struct {
	Queue  *radio.Queue
	Pagers *pager.Registry
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Show the queue" }
func (c *QueueCommand) Group() string       { return "radio" }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func (c *QueueCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	length, tracks, err := c.Queue.Snapshot(e.GuildID)
	if err != nil {
		return err
	}
	if length == 0 {
		return bot.RespondEmbed(s, e, bot.Embed("Queue", radio.ErrQueueEmpty.Error(), bot.ColorRadio))
	}

	total, err := c.Queue.TotalLength(e.GuildID)
	if err != nil {
		return err
	}

	rows := make([]pager.Pair, 0, length)
	for i, t := range tracks {
		rows = append(rows, pager.Pair{
			Name:  fmt.Sprintf("%d.", i+1),
			Value: trackLine(t),
		})
	}

	desc := fmt.Sprintf("Queue Length: %s", formatTrackTime(total))
	p := pager.New(pager.FromSlice(rows), length, pager.DefaultPageSize)
	return bindPagedReply(s, e, c.Pagers, p, "Queue", desc, bot.ColorRadio)
}
