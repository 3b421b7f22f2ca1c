package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/pager"
)

// pagerComponents are the page-turn buttons attached to every listing.
func pagerComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "◀️"},
					Style:    discordgo.SecondaryButton,
					CustomID: "pager:prev",
				},
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "▶️"},
					Style:    discordgo.SecondaryButton,
					CustomID: "pager:next",
				},
			},
		},
	}
}

// pagerEmbed renders one page of a listing.
func pagerEmbed(title, description string, color int, p *pager.Pager, rows []pager.Pair) *discordgo.MessageEmbed {
	embed := bot.Embed(title, description, color)
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d of %d", p.Page(), p.LastPage()),
	}
	for _, row := range rows {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  row.Name,
			Value: row.Value,
		})
	}
	return embed
}

// bindPagedReply sends a paged embed as the interaction response and binds
// the pager to the resulting message so its buttons work.
func bindPagedReply(s *discordgo.Session, e *discordgo.InteractionCreate, pagers *pager.Registry, p *pager.Pager, title, description string, color int) error {
	rows := p.Turn(0)
	embed := pagerEmbed(title, description, color, p, rows)

	if err := bot.RespondEmbedView(s, e, embed, pagerComponents()); err != nil {
		return err
	}

	msg, err := s.InteractionResponse(e.Interaction)
	if err != nil {
		return err
	}
	pagers.Bind(msg.ID, p)
	return nil
}
