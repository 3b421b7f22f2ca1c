package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/storage"
)

// runQotdScheduler posts the daily question. It wakes every minute, compares
// the UTC clock against each guild's configured time, and pops the next
// accepted question for guilds that match. A guild that matches is marked for
// the day so a slow tick can't double-post.
func runQotdScheduler(ctx context.Context, dg *discordgo.Session, st *storage.Storage) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	posted := make(map[string]string) // guildID -> date of last post

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			now = now.UTC()
			clock := now.Format("15:04")
			day := now.Format("2006-01-02")

			for _, binding := range st.GuildsWithModule(storage.ModuleQotd) {
				if binding.Config.Time != clock || binding.Config.ChannelID == "" {
					continue
				}
				if posted[binding.GuildID] == day {
					continue
				}
				posted[binding.GuildID] = day

				if err := postQuestion(dg, st, binding.GuildID, binding.Config.ChannelID); err != nil {
					log.Printf("[ERR] [%s] Failed to post question of the day: %v", binding.GuildID, err)
				}
			}
		}
	}
}

func postQuestion(dg *discordgo.Session, st *storage.Storage, guildID, channelID string) error {
	q, err := st.FetchQuestion(guildID)
	if err != nil {
		return err
	}
	if q == nil {
		log.Printf("[WARN] [%s] No accepted questions left to post", guildID)
		return nil
	}

	desc := fmt.Sprintf("%s\n\nsuggested by <@%s>", q.Text, q.User)
	embed := bot.Embed("Question of the Day", desc, bot.ColorQotd)

	roleID, err := st.RoleID(guildID, storage.RoleQotd)
	if err != nil {
		return err
	}

	content := ""
	if roleID != "" {
		content = fmt.Sprintf("<@&%s>", roleID)
	}
	_, err = dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	})
	return err
}
