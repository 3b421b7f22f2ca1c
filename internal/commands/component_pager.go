package commands

import (
	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/pager"
)

// PagerCommand is component-only: it answers the page-turn buttons on every
// paged listing. Expired listings keep their buttons but stop responding.
type PagerCommand struct {
	Pagers *pager.Registry
}

func (c *PagerCommand) Name() string        { return "pager" }
func (c *PagerCommand) Description() string { return "Page-turn buttons" }
func (c *PagerCommand) Group() string       { return "system" }

func (c *PagerCommand) Run(ctx interface{}) error { return nil }

func (c *PagerCommand) Component(ctx *command.ComponentContext) error {
	s, e := ctx.Session, ctx.Event

	p, ok := c.Pagers.Get(e.Message.ID)
	if !ok {
		return bot.RespondDefer(s, e)
	}

	increment := 1
	if e.MessageComponentData().CustomID == "pager:prev" {
		increment = -1
	}
	rows := p.Turn(increment)

	// Keep the title and accent of the listing being paged.
	title, desc, color := "", "", bot.ColorInfo
	if len(e.Message.Embeds) > 0 {
		title = e.Message.Embeds[0].Title
		desc = e.Message.Embeds[0].Description
		color = e.Message.Embeds[0].Color
	}

	embed := pagerEmbed(title, desc, color, p, rows)
	return bot.RespondUpdate(s, e, embed, pagerComponents())
}
