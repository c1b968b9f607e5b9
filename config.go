package fsmkit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the environment-tunable knobs of the package. Every
// field has a default, so an empty environment yields a working
// configuration.
type Config struct {
	WatchBuffer int        `env:"FSM_WATCH_BUFFER" envDefault:"16"` // channel buffer handed to Watch subscribers
	LogLevel    slog.Level `env:"FSM_LOG_LEVEL" envDefault:"INFO"`  // minimum level for the logger built by WithConfig
}

var dotenvOnce sync.Once

// LoadConfig reads Config from environment variables, loading the
// optional .env file once per process first. A missing .env file is not
// an error.
func LoadConfig() (Config, error) {
	dotenvOnce.Do(func() {
		// The .env file might not exist and that's ok.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// MustLoadConfig works like LoadConfig but panics when loading fails.
func MustLoadConfig() Config {
	cfg, err := LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("fsmkit: failed to load required configuration: %v", err))
	}
	return cfg
}
