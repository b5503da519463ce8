package config

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogging points the global logger at a console writer on stderr.
// An empty level keeps the configured one.
func (c Config) SetupLogging(level string) error {
	if level != "" {
		c.LogLevel = level
	}
	lvl, err := c.Level()
	if err != nil {
		return err
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().Timestamp().Logger()
	return nil
}
