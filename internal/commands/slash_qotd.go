package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/pager"
	"atlas-bot/internal/storage"
)

// QotdCommand is the question-of-the-day suite: anyone can suggest, managers
// review the pending queue, and the scheduler posts from the accepted queue.
type QotdCommand struct {
	Storage *storage.Storage
	Pagers  *pager.Registry
}

func (c *QotdCommand) Name() string        { return "qotd" }
func (c *QotdCommand) Description() string { return "Question of the day" }
func (c *QotdCommand) Group() string       { return "qotd" }

func (c *QotdCommand) SlashDefinition() *discordgo.ApplicationCommand {
	indexOption := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "number",
		Description: "Question number from /qotd pending",
		Required:    true,
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "suggest",
				Description: "Suggest a question",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "question",
						Description: "The question to suggest",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "pending",
				Description: "List questions waiting for review",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "queue",
				Description: "List accepted questions waiting to be posted",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "accept",
				Description: "Accept a pending question",
				Options:     []*discordgo.ApplicationCommandOption{indexOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "decline",
				Description: "Decline a pending question",
				Options:     []*discordgo.ApplicationCommandOption{indexOption},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "force",
				Description: "Post the next accepted question now",
			},
		},
	}
}

func (c *QotdCommand) Run(ctx interface{}) error {
	sc, err := slashCtx(ctx)
	if err != nil {
		return err
	}
	s, e := sc.Session, sc.Event

	sub := e.ApplicationCommandData().Options[0]
	if sub.Name == "suggest" {
		return c.suggest(sc, sub)
	}

	// Everything past suggesting is curation and needs manager rights.
	if memberLevel(sc.Storage, e) < storage.LevelManager {
		return bot.RespondError(s, e, "You don't have permission to manage questions.")
	}

	switch sub.Name {
	case "pending":
		return c.list(sc, "Pending Questions", storagePending)
	case "queue":
		return c.list(sc, "Accepted Questions", storageAccepted)
	case "accept":
		return c.review(sc, sub, true)
	case "decline":
		return c.review(sc, sub, false)
	case "force":
		return c.force(sc)
	}
	return bot.RespondError(s, e, "Unknown subcommand.")
}

func (c *QotdCommand) suggest(sc *command.SlashContext, sub *discordgo.ApplicationCommandInteractionDataOption) error {
	s, e := sc.Session, sc.Event

	text := subOptionMap(sub)["question"].StringValue()
	if err := c.Storage.SuggestQuestion(e.GuildID, text, invokerID(e)); err != nil {
		return err
	}
	desc := fmt.Sprintf("Your question has been suggested:\n> %s", text)
	return bot.RespondEmbedEphemeral(s, e, bot.Embed("Question of the Day", desc, bot.ColorQotd))
}

type qotdQueueKind int

const (
	storagePending qotdQueueKind = iota
	storageAccepted
)

func (c *QotdCommand) list(sc *command.SlashContext, title string, kind qotdQueueKind) error {
	s, e := sc.Session, sc.Event

	var (
		questions []storage.Question
		err       error
	)
	if kind == storagePending {
		questions, err = c.Storage.PendingQuestions(e.GuildID)
	} else {
		questions, err = c.Storage.AcceptedQuestions(e.GuildID)
	}
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return bot.RespondEmbed(s, e, bot.Embed(title, "Nothing here.", bot.ColorQotd))
	}

	rows := make([]pager.Pair, 0, len(questions))
	for i, q := range questions {
		rows = append(rows, pager.Pair{
			Name:  fmt.Sprintf("%d.", i+1),
			Value: fmt.Sprintf("%s\nsuggested by <@%s>", q.Text, q.User),
		})
	}
	p := pager.New(pager.FromSlice(rows), len(rows), pager.DefaultPageSize)
	return bindPagedReply(s, e, c.Pagers, p, title, "", bot.ColorQotd)
}

func (c *QotdCommand) review(sc *command.SlashContext, sub *discordgo.ApplicationCommandInteractionDataOption, accept bool) error {
	s, e := sc.Session, sc.Event

	number := abs(int(subOptionMap(sub)["number"].IntValue()))
	if number < 1 {
		number = 1
	}

	var (
		q   *storage.Question
		err error
	)
	if accept {
		q, err = c.Storage.AcceptQuestion(e.GuildID, number-1)
	} else {
		q, err = c.Storage.DeclineQuestion(e.GuildID, number-1)
	}
	if err != nil {
		return err
	}
	if q == nil {
		return bot.RespondError(s, e, "Invalid index.")
	}

	verb := "declined"
	if accept {
		verb = "accepted"
	}
	desc := fmt.Sprintf("Question %s:\n> %s", verb, q.Text)
	return bot.RespondEmbed(s, e, bot.Embed("Question of the Day", desc, bot.ColorQotd))
}

func (c *QotdCommand) force(sc *command.SlashContext) error {
	s, e := sc.Session, sc.Event

	q, err := c.Storage.FetchQuestion(e.GuildID)
	if err != nil {
		return err
	}
	if q == nil {
		return bot.RespondError(s, e, "There are no accepted questions to post.")
	}

	desc := fmt.Sprintf("%s\n\nsuggested by <@%s>", q.Text, q.User)
	return bot.RespondEmbed(s, e, bot.Embed("Question of the Day", desc, bot.ColorQotd))
}
