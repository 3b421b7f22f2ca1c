package commands

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/radio"
	"atlas-bot/internal/storage"
)

type PlayCommand struct {
	Queue       *radio.Queue
	Coordinator *radio.Coordinator
	Node        radio.AudioNode
}

func (c *PlayCommand) Name() string        { return "play" }
func (c *PlayCommand) Description() string { return "Queue a song or playlist and start playing" }
func (c *PlayCommand) Group() string       { return "radio" }

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "song",
				Description: "A link or search query",
				Required:    true,
			},
		},
	}
}

func (c *PlayCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	channelID := userVoiceChannel(s, e.GuildID, invokerID(e))
	if channelID == "" {
		return bot.RespondError(s, e, "You need to be in a voice channel first.")
	}

	query := optionMap(e)["song"].StringValue()

	// Resolution goes over the wire, so acknowledge first.
	if err := bot.RespondDeferSource(s, e); err != nil {
		return err
	}
	followupError := func(title string) error {
		_, err := bot.FollowupEmbed(s, e, bot.Embed(title, "", bot.ColorError))
		return err
	}

	// /play follows the caller, moving the session if needed.
	if err := c.Coordinator.Rejoin(e.GuildID, channelID, e.ChannelID); err != nil {
		return followupError("Failed to join the voice channel.")
	}

	res, err := c.Node.Resolve(query)
	if err != nil {
		return followupError("Failed to look the song up, try again later.")
	}
	if res == nil || len(res.Tracks) == 0 {
		return followupError(radio.ErrTrackNotFound.Error())
	}

	requester := displayName(e)
	tracks := make([]storage.Track, 0, len(res.Tracks))
	for _, rt := range res.Tracks {
		t := rt.Track
		t.User = requester
		tracks = append(tracks, t)
	}

	position, err := c.Queue.Enqueue(e.GuildID, tracks)
	if err != nil {
		return followupError("Failed to queue the track.")
	}

	var desc string
	if res.IsPlaylist() {
		desc = fmt.Sprintf("Added **%d** tracks from **%s** to the queue (position %d).",
			len(tracks), res.PlaylistName, position)
	} else {
		desc = fmt.Sprintf("Added %s to the queue (position %d).", trackLine(tracks[0]), position)
	}
	if _, err := bot.FollowupEmbed(s, e, bot.Embed("Queued", desc, sourceColor(tracks[0].URL))); err != nil {
		return err
	}

	if !c.Coordinator.Playing(e.GuildID) {
		if _, err := c.Coordinator.PlayNext(e.GuildID); err != nil &&
			!errors.Is(err, radio.ErrQueueEmpty) {
			_, _ = bot.FollowupEmbed(s, e, bot.Embed("Playback failed", err.Error(), bot.ColorError))
		}
	}
	return nil
}
