package command

import (
	"atlas-bot/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Command is the unit every slash or component handler implements.
type Command interface {
	Name() string
	Description() string
	Group() string
	Run(ctx interface{}) error
}

// SlashProvider is implemented by commands that register a slash definition.
// Component-only commands (player controls, pager) skip it.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ComponentInteractionHandler is implemented by commands that own message
// components, dispatched by custom-ID prefix.
type ComponentInteractionHandler interface {
	Component(ctx *ComponentContext) error
}

// SlashContext is passed to Run for chat-input interactions.
type SlashContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}

// ComponentContext is passed to Component for button interactions.
type ComponentContext struct {
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Storage *storage.Storage
}
