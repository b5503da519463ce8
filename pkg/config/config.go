// Package config loads tool defaults from the environment. Command-line
// flags override these values.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the environment defaults shared by the tools
type Config struct {
	Format   string `env:"YRP_FORMAT" envDefault:"json"`
	LogLevel string `env:"YRP_LOG_LEVEL" envDefault:"info"`
	Zstd     bool   `env:"YRP_ZSTD" envDefault:"false"`

	MongoURI        string `env:"YRP_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string `env:"YRP_MONGO_DATABASE" envDefault:"duel_replay"`
	MongoCollection string `env:"YRP_MONGO_COLLECTION" envDefault:"replays"`

	SQLitePath string `env:"YRP_SQLITE_PATH" envDefault:"replays.db"`
}

// Load parses Config from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Level returns the configured zerolog level
func (c Config) Level() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
