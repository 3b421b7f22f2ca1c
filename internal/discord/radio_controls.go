package discord

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
	"atlas-bot/internal/storage"
)

// controlRecency is how many recent messages the control message may trail
// behind before it gets re-sent instead of edited in place.
const controlRecency = 4

// controlPreview is how many upcoming tracks the control message lists.
const controlPreview = 8

// ControlSurface owns the persistent now-playing message and its buttons. It
// implements the coordinator's renderer hook.
type ControlSurface struct {
	dg          *discordgo.Session
	queue       *radio.Queue
	coordinator *radio.Coordinator
}

func NewControlSurface(dg *discordgo.Session, queue *radio.Queue, coord *radio.Coordinator) *ControlSurface {
	return &ControlSurface{dg: dg, queue: queue, coordinator: coord}
}

func controlComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "⏯️"},
					Style:    discordgo.SecondaryButton,
					CustomID: "player:pause",
				},
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "⏭️"},
					Style:    discordgo.SecondaryButton,
					CustomID: "player:skip",
				},
				discordgo.Button{
					Emoji:    &discordgo.ComponentEmoji{Name: "🔁"},
					Style:    discordgo.SecondaryButton,
					CustomID: "player:loop",
				},
			},
		},
	}
}

func loopFooter(mode storage.LoopMode) string {
	switch mode {
	case storage.LoopTrack:
		return "🔁 | Track"
	case storage.LoopNone:
		return "🔁 | Disabled"
	default:
		return "🔁 | Playlist"
	}
}

func (c *ControlSurface) buildEmbed(guildID string) (*discordgo.MessageEmbed, error) {
	tracks, err := c.queue.First(guildID, controlPreview)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, nil
	}

	head := tracks[0]
	desc := fmt.Sprintf("[%s](%s)\n%s | requested by %s",
		head.Title, head.URL, formatLength(head.Length), head.User)

	title := "Now Playing"
	if sess, ok := c.coordinator.Session(guildID); ok && sess.Paused {
		title = "Paused"
	}
	embed := bot.Embed(title, desc, bot.ColorRadio)

	if len(tracks) > 1 {
		var lines []string
		for i, t := range tracks[1:] {
			lines = append(lines, fmt.Sprintf("%d. [%s](%s)", i+2, t.Title, t.URL))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Up Next",
			Value: strings.Join(lines, "\n"),
		})
	}

	mode, err := c.queue.Loop(guildID)
	if err != nil {
		return nil, err
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: loopFooter(mode)}
	return embed, nil
}

// RenderControls refreshes the guild's control message. If the old message is
// still among the channel's most recent few it is edited in place; otherwise
// it is deleted and a fresh one posted so the controls stay visible.
func (c *ControlSurface) RenderControls(guildID string) {
	sess, ok := c.coordinator.Session(guildID)
	if !ok {
		return
	}

	embed, err := c.buildEmbed(guildID)
	if err != nil {
		log.Printf("[ERR] [%s] Failed to build control message: %v", guildID, err)
		return
	}
	if embed == nil {
		return
	}
	components := controlComponents()

	if sess.ControlMessageID != "" {
		recent, err := c.dg.ChannelMessages(sess.TextChannelID, controlRecency, "", "", "")
		if err == nil {
			for _, m := range recent {
				if m.ID == sess.ControlMessageID {
					_, err := c.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
						ID:         m.ID,
						Channel:    sess.TextChannelID,
						Embeds:     &[]*discordgo.MessageEmbed{embed},
						Components: &components,
					})
					if err == nil {
						return
					}
					break
				}
			}
		}
		if err := c.dg.ChannelMessageDelete(sess.TextChannelID, sess.ControlMessageID); err != nil {
			log.Printf("[WARN] [%s] Failed to delete stale control message: %v", guildID, err)
		}
	}

	msg, err := c.dg.ChannelMessageSendComplex(sess.TextChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		log.Printf("[ERR] [%s] Failed to send control message: %v", guildID, err)
		return
	}
	c.coordinator.SetControlMessage(guildID, msg.ID)
}

func formatLength(ms int64) string {
	if ms <= 0 {
		return "∞"
	}
	total := ms / 1000
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
