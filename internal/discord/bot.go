// Package discord wires the gateway: session lifecycle, slash command
// registration, interaction dispatch, and the voice plumbing the radio needs.
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"atlas-bot/internal/bot"
	"atlas-bot/internal/command"
	"atlas-bot/internal/config"
	"atlas-bot/internal/radio"
	"atlas-bot/internal/storage"
)

// VoiceUpdateSink receives the gateway voice credentials the audio node needs
// to take over a guild's voice connection.
type VoiceUpdateSink interface {
	SubmitVoiceUpdate(guildID, sessionID, token, endpoint string) error
}

// Bot is the Discord gateway side of the application.
type Bot struct {
	dg          *discordgo.Session
	cfg         *config.Config
	storage     *storage.Storage
	coordinator *radio.Coordinator
	queue       *radio.Queue
	node        VoiceUpdateSink

	mu            sync.Mutex
	voiceSessions map[string]string // guildID -> our gateway voice session ID
}

func New(cfg *config.Config, st *storage.Storage, coord *radio.Coordinator, queue *radio.Queue, node VoiceUpdateSink) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	b := &Bot{
		dg:            dg,
		cfg:           cfg,
		storage:       st,
		coordinator:   coord,
		queue:         queue,
		node:          node,
		voiceSessions: make(map[string]string),
	}
	b.configureIntents()
	return b, nil
}

// Session exposes the underlying gateway session for the control surface and
// schedulers built on top of the bot.
func (b *Bot) Session() *discordgo.Session {
	return b.dg
}

// Run opens the gateway and blocks until the context ends.
func (b *Bot) Run(ctx context.Context) error {
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onGuildCreate)
	b.dg.AddHandler(b.onInteractionCreate)
	b.dg.AddHandler(b.onVoiceStateUpdate)
	b.dg.AddHandler(b.onVoiceServerUpdate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	go runQotdScheduler(ctx, b.dg, b.storage)

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates
}

// JoinVoice asks the gateway to join a voice channel without opening a local
// UDP connection; the audio node takes the connection over once the voice
// server update is forwarded.
func (b *Bot) JoinVoice(guildID, channelID string) error {
	return b.dg.ChannelVoiceJoinManual(guildID, channelID, false, true)
}

// LeaveVoice disconnects the gateway from the guild's voice.
func (b *Bot) LeaveVoice(guildID string) error {
	return b.dg.ChannelVoiceJoinManual(guildID, "", false, true)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	for _, g := range r.Guilds {
		if b.cfg.InitSlashCommands {
			if err := b.registerCommands(g.ID); err != nil {
				log.Println("[ERR] Error registering slash commands for guild", g.ID, ":", err)
			}
		} else {
			log.Println("[INFO] Registering slash commands skipped")
		}
	}
	log.Printf("[INFO] Discord bot %v is running.", s.State.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	if err := b.registerCommands(g.Guild.ID); err != nil {
		log.Printf("[ERR] Failed to register commands for new guild %s: %v", g.Guild.ID, err)
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		cmdName := i.ApplicationCommandData().Name

		cmd, ok := command.GetCommand(cmdName)
		if !ok {
			log.Printf("[WARN] Unknown command: %s", cmdName)
			return
		}

		ctx := &command.SlashContext{Session: s, Event: i, Storage: b.storage}
		if err := cmd.Run(ctx); err != nil {
			log.Println("[ERR] Error running slash command:", err)
			_ = bot.RespondError(s, i, "Something went wrong, try again later.")
		}

	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID

		var matched command.Command
		for _, cmd := range command.AllCommands() {
			if strings.HasPrefix(customID, cmd.Name()+":") {
				matched = cmd
				break
			}
		}
		if matched == nil {
			log.Printf("[WARN] No matching component for customID: %s", customID)
			return
		}

		handler, ok := matched.(command.ComponentInteractionHandler)
		if !ok {
			log.Printf("[WARN] Command %s has no component handler", matched.Name())
			return
		}

		ctx := &command.ComponentContext{Session: s, Event: i, Storage: b.storage}
		if err := handler.Component(ctx); err != nil {
			log.Printf("[ERR] Error running component command %s: %v", matched.Name(), err)
			_ = bot.RespondError(s, i, "Something went wrong, try again later.")
		}
	}
}

// onVoiceStateUpdate tracks our own voice session ID for the node handshake
// and feeds channel occupancy into the coordinator's grace logic.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID == s.State.User.ID {
		b.mu.Lock()
		if v.ChannelID == "" {
			delete(b.voiceSessions, v.GuildID)
		} else {
			b.voiceSessions[v.GuildID] = v.SessionID
		}
		b.mu.Unlock()
		return
	}

	sess, ok := b.coordinator.Session(v.GuildID)
	if !ok {
		return
	}
	b.coordinator.HandleVoiceOccupancy(v.GuildID, b.countHumans(v.GuildID, sess.VoiceChannelID))
}

// onVoiceServerUpdate hands the voice credentials to the audio node.
func (b *Bot) onVoiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	b.mu.Lock()
	sessionID := b.voiceSessions[v.GuildID]
	b.mu.Unlock()

	if sessionID == "" {
		log.Printf("[WARN] [%s] Voice server update before voice state, dropping", v.GuildID)
		return
	}
	if err := b.node.SubmitVoiceUpdate(v.GuildID, sessionID, v.Token, v.Endpoint); err != nil {
		log.Printf("[ERR] [%s] Failed to forward voice update to audio node: %v", v.GuildID, err)
	}
}

func (b *Bot) countHumans(guildID, channelID string) int {
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return 0
	}

	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID != channelID {
			continue
		}
		member, err := b.dg.State.Member(guildID, vs.UserID)
		if err == nil && member.User != nil && member.User.Bot {
			continue
		}
		count++
	}
	return count
}

// registerCommands reconciles the guild's slash commands with the registry:
// obsolete ones are deleted, missing ones created with rate-limit pacing.
func (b *Bot) registerCommands(guildID string) error {
	appID := b.dg.State.User.ID
	if appID == "" {
		user, err := b.dg.User("@me")
		if err != nil {
			return err
		}
		appID = user.ID
	}

	wanted := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range command.AllCommands() {
		if slash, ok := cmd.(command.SlashProvider); ok {
			if def := slash.SlashDefinition(); def != nil {
				wanted[def.Name] = def
			}
		}
	}

	existing, _ := b.dg.ApplicationCommands(appID, guildID)
	for _, old := range existing {
		if _, ok := wanted[old.Name]; !ok {
			log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, old.Name)
			if err := b.dg.ApplicationCommandDelete(appID, guildID, old.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, old.Name, err)
			}
		}
	}

	ticker := time.NewTicker(time.Second / 40)
	defer ticker.Stop()

	for _, def := range wanted {
		<-ticker.C
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Printf("[ERR] Can't create command %s: %v", def.Name, err)
		}
	}
	return nil
}
