package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, loaded from the environment
// (optionally seeded from a local .env file).
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`
	LogPath      string `env:"LOG_PATH" envDefault:"atlas.log"`

	AudioNodeHost     string `env:"AUDIO_NODE_HOST" envDefault:"lavalink"`
	AudioNodePort     int    `env:"AUDIO_NODE_PORT" envDefault:"2333"`
	AudioNodePassword string `env:"AUDIO_NODE_PASSWORD"`

	InitSlashCommands bool `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

// New loads the configuration from the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
