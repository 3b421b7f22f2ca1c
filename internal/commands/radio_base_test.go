package commands

import (
	"testing"

	"atlas-bot/internal/bot"
)

func TestFormatTrackTime(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "∞"},
		{-1, "∞"},
		{1_000, "00:01"},
		{61_000, "01:01"},
		{600_000, "10:00"},
		{3_599_000, "59:59"},
		{3_600_000, "1:00:00"},
		{7_325_000, "2:02:05"},
	}
	for _, c := range cases {
		if got := formatTrackTime(c.ms); got != c.want {
			t.Errorf("formatTrackTime(%d) = %q, want %q", c.ms, got, c.want)
		}
	}
}

func TestSourceColor(t *testing.T) {
	cases := []struct {
		url  string
		want int
	}{
		{"https://www.youtube.com/watch?v=x", bot.ColorYouTube},
		{"https://youtu.be/x", bot.ColorYouTube},
		{"https://open.spotify.com/track/x", bot.ColorSpotify},
		{"https://soundcloud.com/artist/track", bot.ColorSoundCloud},
		{"https://www.twitch.tv/channel", bot.ColorTwitch},
		{"https://example.com/stream", bot.ColorRadio},
	}
	for _, c := range cases {
		if got := sourceColor(c.url); got != c.want {
			t.Errorf("sourceColor(%q) = %#x, want %#x", c.url, got, c.want)
		}
	}
}
