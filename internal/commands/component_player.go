package commands

import (
	"errors"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/radio"
)

// PlayerCommand is component-only: it answers the buttons on the persistent
// now-playing control message.
type PlayerCommand struct {
	Queue       *radio.Queue
	Coordinator *radio.Coordinator
	Renderer    radio.ControlRenderer
}

func (c *PlayerCommand) Name() string        { return "player" }
func (c *PlayerCommand) Description() string { return "Player control buttons" }
func (c *PlayerCommand) Group() string       { return "radio" }

func (c *PlayerCommand) Run(ctx interface{}) error { return nil }

func (c *PlayerCommand) Component(ctx *command.ComponentContext) error {
	s, e := ctx.Session, ctx.Event

	sess, ok := c.Coordinator.Session(e.GuildID)
	if !ok {
		return bot.RespondDefer(s, e)
	}

	// Controls are open to radio-level listeners sitting in the channel the
	// bot plays in.
	if msg := controlAuthError(s, ctx.Storage, e, sess.VoiceChannelID); msg != "" {
		return bot.RespondError(s, e, msg)
	}

	switch e.MessageComponentData().CustomID {
	case "player:pause":
		if _, err := c.Coordinator.TogglePause(e.GuildID); err != nil &&
			!errors.Is(err, radio.ErrNotConnected) {
			return err
		}
		c.Renderer.RenderControls(e.GuildID)
		return bot.RespondDefer(s, e)

	case "player:skip":
		if err := c.Coordinator.Skip(e.GuildID); err != nil &&
			!errors.Is(err, radio.ErrNotPlaying) {
			return err
		}
		// The track-end advance re-renders the controls.
		return bot.RespondDefer(s, e)

	case "player:loop":
		if _, err := c.Queue.CycleLoop(e.GuildID); err != nil {
			return err
		}
		c.Renderer.RenderControls(e.GuildID)
		return bot.RespondDefer(s, e)
	}
	return bot.RespondDefer(s, e)
}
