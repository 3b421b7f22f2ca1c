// Package commands holds every slash and component command. Each command is
// a struct carrying its dependencies; registration happens in main.
package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/storage"
)

// formatTrackTime renders a track length in milliseconds for embeds. Zero
// means a live stream.
func formatTrackTime(ms int64) string {
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

// trackLine is the one-line rendering of a queued track.
func trackLine(t storage.Track) string {
	return fmt.Sprintf("[%s](%s) | %s | %s", t.Title, t.URL, formatTrackTime(t.Length), t.User)
}

// sourceColor picks the embed accent from the track origin.
func sourceColor(url string) int {
	switch {
	case strings.Contains(url, "youtube.com"), strings.Contains(url, "youtu.be"):
		return bot.ColorYouTube
	case strings.Contains(url, "spotify.com"):
		return bot.ColorSpotify
	case strings.Contains(url, "soundcloud.com"):
		return bot.ColorSoundCloud
	case strings.Contains(url, "twitch.tv"):
		return bot.ColorTwitch
	default:
		return bot.ColorRadio
	}
}

// userVoiceChannel finds the voice channel the user currently sits in, or ""
// if they aren't connected.
func userVoiceChannel(s *discordgo.Session, guildID, userID string) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

// voiceHumans lists the non-bot user IDs in a voice channel.
func voiceHumans(s *discordgo.Session, guildID, channelID string) []string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil
	}
	var out []string
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		member, err := s.State.Member(guildID, vs.UserID)
		if err == nil && member.User != nil && member.User.Bot {
			continue
		}
		out = append(out, vs.UserID)
	}
	return out
}

// memberLevel computes the invoking member's permission level.
func memberLevel(st *storage.Storage, e *discordgo.InteractionCreate) int {
	if e.Member == nil {
		return 0
	}
	isAdmin := e.Member.Permissions&discordgo.PermissionAdministrator != 0
	level, err := st.PermissionLevel(e.GuildID, e.Member.Roles, isAdmin)
	if err != nil {
		return 0
	}
	return level
}

// controlAuthError applies the shared rule for the playback control widgets:
// the invoker must sit in the bot's voice channel and hold the radio
// permission level. It returns the rejection message to show, or "" when the
// invoker may proceed.
func controlAuthError(s *discordgo.Session, st *storage.Storage, e *discordgo.InteractionCreate, voiceChannelID string) string {
	if userVoiceChannel(s, e.GuildID, invokerID(e)) != voiceChannelID {
		return "You need to be in the radio's voice channel to use the controls."
	}
	if memberLevel(st, e) < storage.LevelRadio {
		return "You don't have permission to use the player controls."
	}
	return ""
}

// displayName prefers the guild nickname over the account name.
func displayName(e *discordgo.InteractionCreate) string {
	if e.Member != nil {
		if e.Member.Nick != "" {
			return e.Member.Nick
		}
		if e.Member.User != nil {
			return e.Member.User.Username
		}
	}
	if e.User != nil {
		return e.User.Username
	}
	return "unknown"
}

// invokerID returns the interaction author's user ID.
func invokerID(e *discordgo.InteractionCreate) string {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User.ID
	}
	if e.User != nil {
		return e.User.ID
	}
	return ""
}

// optionMap indexes the interaction's options by name.
func optionMap(e *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	for _, opt := range e.ApplicationCommandData().Options {
		out[opt.Name] = opt
	}
	return out
}

// subOptionMap indexes a subcommand's options by name.
func subOptionMap(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := map[string]*discordgo.ApplicationCommandInteractionDataOption{}
	for _, opt := range sub.Options {
		out[opt.Name] = opt
	}
	return out
}

// slashCtx narrows the untyped Run context.
func slashCtx(ctx interface{}) (*command.SlashContext, error) {
	c, ok := ctx.(*command.SlashContext)
	if !ok {
		return nil, fmt.Errorf("expected slash context, got %T", ctx)
	}
	return c, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
