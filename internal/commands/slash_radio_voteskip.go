package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/radio"
)

// voteSkipTimeout is how long a vote stays open without reaching its
// threshold.
const voteSkipTimeout = 30 * time.Second

// VoteSkipCommand opens a vote to skip the current track. Eligible voters are
// the humans in the bot's voice channel at the moment the vote starts.
type VoteSkipCommand struct {
	Coordinator *radio.Coordinator

	mu    sync.Mutex
	votes map[string]*radio.VoteSkip // keyed by vote message ID
}

func NewVoteSkipCommand(coord *radio.Coordinator) *VoteSkipCommand {
	return &VoteSkipCommand{
		Coordinator: coord,
		votes:       make(map[string]*radio.VoteSkip),
	}
}

func (c *VoteSkipCommand) Name() string        { return "voteskip" }
func (c *VoteSkipCommand) Description() string { return "Vote to skip the current track" }
func (c *VoteSkipCommand) Group() string       { return "radio" }

func (c *VoteSkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: c.Name(), Description: c.Description()}
}

func voteSkipEmbed(votes, listeners int) *discordgo.MessageEmbed {
	desc := fmt.Sprintf("**%d** of **%d** listeners voted to skip (50%% needed).", votes, listeners)
	return bot.Embed("Vote Skip", desc, bot.ColorRadio)
}

func voteSkipComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Skip",
					Emoji:    &discordgo.ComponentEmoji{Name: "⏭️"},
					Style:    discordgo.PrimaryButton,
					CustomID: "voteskip:vote",
				},
			},
		},
	}
}

func (c *VoteSkipCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	if !c.Coordinator.Playing(e.GuildID) {
		return bot.RespondError(s, e, radio.ErrNotPlaying.Error())
	}

	sess, ok := c.Coordinator.Session(e.GuildID)
	if !ok {
		return bot.RespondError(s, e, radio.ErrNotConnected.Error())
	}

	voters := voiceHumans(s, e.GuildID, sess.VoiceChannelID)
	vote := radio.NewVoteSkip(voters)

	// The starter's own vote counts immediately; with one listener the
	// threshold is already met.
	votes, reached := vote.Vote(invokerID(e))
	if reached {
		if err := c.Coordinator.Skip(e.GuildID); err != nil {
			return err
		}
		return bot.RespondEmbed(s, e, bot.Embed("Vote Skip", "Track skipped.", bot.ColorRadio))
	}

	if err := bot.RespondEmbedView(s, e, voteSkipEmbed(votes, len(voters)), voteSkipComponents()); err != nil {
		return err
	}

	msg, err := s.InteractionResponse(e.Interaction)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.votes[msg.ID] = vote
	c.mu.Unlock()

	time.AfterFunc(voteSkipTimeout, func() {
		c.mu.Lock()
		delete(c.votes, msg.ID)
		c.mu.Unlock()
	})
	return nil
}

func (c *VoteSkipCommand) Component(ctx *command.ComponentContext) error {
	s, e := ctx.Session, ctx.Event

	c.mu.Lock()
	vote, ok := c.votes[e.Message.ID]
	c.mu.Unlock()
	if !ok {
		// Vote expired; the button stays but stops counting.
		return bot.RespondDefer(s, e)
	}

	userID := invokerID(e)
	if !vote.Eligible(userID) {
		return bot.RespondError(s, e, "Only listeners who were in the channel when the vote started can vote.")
	}

	votes, reached := vote.Vote(userID)
	if reached {
		c.mu.Lock()
		delete(c.votes, e.Message.ID)
		c.mu.Unlock()

		if err := c.Coordinator.Skip(e.GuildID); err != nil {
			return err
		}
		return bot.RespondUpdate(s, e, bot.Embed("Vote Skip", "Track skipped.", bot.ColorRadio), []discordgo.MessageComponent{})
	}
	_, listeners := vote.Votes()
	return bot.RespondUpdate(s, e, voteSkipEmbed(votes, listeners), voteSkipComponents())
}
