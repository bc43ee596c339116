package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/DoyleJ11/netlobby-backend/internal/engine"
	"github.com/DoyleJ11/netlobby-backend/internal/session"
)

type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DevLogging  bool   `env:"DEV_LOGGING"`

	GameMode          string        `env:"GAME_MODE" envDefault:"sandbox"`
	RandomizeSeed     bool          `env:"RANDOMIZE_SEED" envDefault:"true"`
	SubSelectionMode  string        `env:"SUB_SELECTION_MODE" envDefault:"manual"`
	ModeSelectionMode string        `env:"MODE_SELECTION_MODE" envDefault:"manual"`
	MissionTypes      []string      `env:"MISSION_TYPES" envSeparator:","`
	FlushInterval     time.Duration `env:"SETTINGS_FLUSH_INTERVAL" envDefault:"10s"`
}

// Load reads an optional .env file (or the given files) and then the
// environment. Variables already set in the environment win.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	for _, m := range []string{c.SubSelectionMode, c.ModeSelectionMode} {
		switch engine.SelectionMode(m) {
		case engine.SelectionManual, engine.SelectionRandom, engine.SelectionVote:
		default:
			return fmt.Errorf("%w: unknown selection mode %q", engine.ErrConfiguration, m)
		}
	}
	if c.FlushInterval <= 0 {
		return fmt.Errorf("%w: SETTINGS_FLUSH_INTERVAL must be positive", engine.ErrConfiguration)
	}
	return nil
}

// DefaultSettings are the server settings a fresh lobby starts from.
func (c Config) DefaultSettings() session.SettingsValues {
	return session.SettingsValues{
		GameModeIdentifier: c.GameMode,
		MissionTypes:       engine.JoinMissionTypes(c.MissionTypes),
		RandomizeSeed:      c.RandomizeSeed,
		SubSelectionMode:   engine.SelectionMode(c.SubSelectionMode),
		ModeSelectionMode:  engine.SelectionMode(c.ModeSelectionMode),
	}
}
