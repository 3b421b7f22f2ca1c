package commands

import "testing"

func TestVoteSkipEmbedShowsListenerTally(t *testing.T) {
	embed := voteSkipEmbed(2, 5)
	want := "**2** of **5** listeners voted to skip (50% needed)."
	if embed.Description != want {
		t.Errorf("description = %q, want %q", embed.Description, want)
	}
}
