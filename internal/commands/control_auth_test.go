package commands

import (
	"path/filepath"
	"testing"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// stateSession builds a session whose state holds one guild with the given
// user -> voice channel assignments.
func stateSession(t *testing.T, guildID string, voice map[string]string) *discordgo.Session {
	t.Helper()
	state := discordgo.NewState()
	guild := &discordgo.Guild{ID: guildID}
	for userID, channelID := range voice {
		guild.VoiceStates = append(guild.VoiceStates, &discordgo.VoiceState{
			GuildID:   guildID,
			UserID:    userID,
			ChannelID: channelID,
		})
	}
	if err := state.GuildAdd(guild); err != nil {
		t.Fatalf("GuildAdd: %v", err)
	}
	return &discordgo.Session{State: state}
}

func memberInteraction(guildID, userID string, roles []string, perms int64) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID: guildID,
		Member: &discordgo.Member{
			User:        &discordgo.User{ID: userID},
			Roles:       roles,
			Permissions: perms,
		},
	}}
}

func TestControlAuthError(t *testing.T) {
	st := newTestStorage(t)
	if err := st.SetRole("g1", storage.RoleRadio, "r-radio"); err != nil {
		t.Fatalf("SetRole: %v", err)
	}

	s := stateSession(t, "g1", map[string]string{
		"listener": "vc-bot",
		"outsider": "vc-other",
	})

	voiceReject := "You need to be in the radio's voice channel to use the controls."
	levelReject := "You don't have permission to use the player controls."

	cases := []struct {
		name string
		e    *discordgo.InteractionCreate
		want string
	}{
		{
			name: "radio-level listener in the channel",
			e:    memberInteraction("g1", "listener", []string{"r-radio"}, 0),
			want: "",
		},
		{
			name: "listener without the radio level",
			e:    memberInteraction("g1", "listener", nil, 0),
			want: levelReject,
		},
		{
			name: "radio-level user in another channel",
			e:    memberInteraction("g1", "outsider", []string{"r-radio"}, 0),
			want: voiceReject,
		},
		{
			name: "radio-level user not in voice at all",
			e:    memberInteraction("g1", "ghost", []string{"r-radio"}, 0),
			want: voiceReject,
		},
		{
			name: "administrator outside the channel",
			e:    memberInteraction("g1", "outsider", nil, discordgo.PermissionAdministrator),
			want: voiceReject,
		},
	}
	for _, c := range cases {
		if got := controlAuthError(s, st, c.e, "vc-bot"); got != c.want {
			t.Errorf("%s: controlAuthError = %q, want %q", c.name, got, c.want)
		}
	}
}
