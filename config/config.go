// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by every deadzone command. Flags
// override these values.
type Config struct {
	// Seed drives every shuffle and the dice pool. Zero picks one from the
	// clock.
	Seed int64 `env:"DEADZONE_SEED"`
	// DicePool is the dice pool length; zero defers to the quest, then the
	// built-in default.
	DicePool  int    `env:"DEADZONE_DICE_POOL"`
	LogLevel  string `env:"DEADZONE_LOG_LEVEL" envDefault:"info"`
	SaveDir   string `env:"DEADZONE_SAVE_DIR"`
	RedisAddr string `env:"DEADZONE_REDIS_ADDR"`
	// SaveTTL bounds how long redis keeps a saved game. Zero keeps it.
	SaveTTL   time.Duration `env:"DEADZONE_SAVE_TTL" envDefault:"0s"`
	MaxWounds int           `env:"DEADZONE_MAX_WOUNDS"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and fills derived defaults.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if cfg.DicePool < 0 {
		return cfg, fmt.Errorf("DEADZONE_DICE_POOL must not be negative, got %d", cfg.DicePool)
	}
	if cfg.MaxWounds < 0 {
		return cfg, fmt.Errorf("DEADZONE_MAX_WOUNDS must not be negative, got %d", cfg.MaxWounds)
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = DefaultSaveDir()
	}
	return cfg, nil
}

// DefaultSaveDir is ~/.deadzone/saves, or a relative directory when the
// home directory is unknown.
func DefaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".deadzone", "saves")
	}
	return filepath.Join(home, ".deadzone", "saves")
}

// ResolveSeed returns the configured seed, or a clock-derived one.
func (c Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
