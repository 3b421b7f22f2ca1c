// cmd/discord/main.go
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"atlas-bot/internal/audionode"
	"atlas-bot/internal/command"
	"atlas-bot/internal/commands"
	"atlas-bot/internal/config"
	"atlas-bot/internal/discord"
	"atlas-bot/internal/middleware"
	"atlas-bot/internal/pager"
	"atlas-bot/internal/radio"
	"atlas-bot/internal/storage"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.LogPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}))
	log.Println("[INFO] Starting Atlas bot...")

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	queue := radio.NewQueue(store)

	node := audionode.New(audionode.Config{
		Host:     cfg.AudioNodeHost,
		Port:     cfg.AudioNodePort,
		Password: cfg.AudioNodePassword,
	})
	defer node.Close()

	coordinator := radio.NewCoordinator(queue, node, nil)

	bot, err := discord.New(cfg, store, coordinator, queue, node)
	if err != nil {
		log.Fatal(err)
	}
	coordinator.SetVoiceGateway(bot)

	controls := discord.NewControlSurface(bot.Session(), queue, coordinator)
	coordinator.SetRenderer(controls)

	// The node pushes track-end events; the coordinator turns them into
	// queue advances.
	node.OnTrackEnd(coordinator.HandleTrackEnd)
	node.OnDisconnect(func(err error) {
		log.Println("[ERR] Audio node lost, radio sessions will not recover:", err)
	})

	botUser, err := bot.Session().User("@me")
	if err != nil {
		log.Fatal(err)
	}
	node.SetUserID(botUser.ID)

	if err := node.ConnectWithRetry(ctx); err != nil {
		log.Fatal(err)
	}

	pagers := pager.NewRegistry(pager.DefaultTimeout)

	radioModule := middleware.WithModuleCheck(storage.ModuleRadio)
	radioLevel := middleware.WithLevelCheck(storage.LevelRadio)
	guildOnly := middleware.WithGuildOnly()

	command.RegisterCommand(&commands.JoinCommand{Coordinator: coordinator}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.LeaveCommand{Coordinator: coordinator}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.PlayCommand{Queue: queue, Coordinator: coordinator, Node: node}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.RemoveCommand{Queue: queue}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.JumpCommand{Queue: queue, Coordinator: coordinator}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.MoveCommand{Queue: queue}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.ClearCommand{Queue: queue}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.PauseCommand{Coordinator: coordinator}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.LoopCommand{Queue: queue}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.ShuffleCommand{Queue: queue, Coordinator: coordinator}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.SkipCommand{Coordinator: coordinator}, radioLevel, radioModule, guildOnly)
	command.RegisterCommand(&commands.VolumeCommand{Coordinator: coordinator}, radioLevel, radioModule, guildOnly)

	// The queue listing and vote skip stay open to everyone in the guild.
	command.RegisterCommand(&commands.QueueCommand{Queue: queue, Pagers: pagers}, radioModule, guildOnly)
	command.RegisterCommand(commands.NewVoteSkipCommand(coordinator), radioModule, guildOnly)

	// Component-only commands; the player checks voice presence itself.
	command.RegisterCommand(&commands.PlayerCommand{Queue: queue, Coordinator: coordinator, Renderer: controls})
	command.RegisterCommand(&commands.PagerCommand{Pagers: pagers})

	command.RegisterCommand(&commands.BlameCommand{Storage: store, Pagers: pagers}, middleware.WithModuleCheck(storage.ModuleBlame), guildOnly)
	command.RegisterCommand(&commands.QotdCommand{Storage: store, Pagers: pagers}, middleware.WithModuleCheck(storage.ModuleQotd), guildOnly)
	command.RegisterCommand(&commands.RolesCommand{Storage: store}, middleware.WithLevelCheck(storage.LevelAdministrator), guildOnly)
	command.RegisterCommand(&commands.ModulesCommand{Storage: store}, middleware.WithLevelCheck(storage.LevelAdministrator), guildOnly)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
