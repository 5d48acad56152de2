// Package config loads the gamehost configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Minimum window size accepted by the host.
const (
	MinWidth  = 320
	MinHeight = 200
)

type Config struct {
	Backend string `env:"GAMELOOP_BACKEND"`
	Window  uint64 `env:"GAMELOOP_WINDOW" default:"0"`
	Width   int    `env:"GAMELOOP_WIDTH" default:"800"`
	Height  int    `env:"GAMELOOP_HEIGHT" default:"600"`

	FixedTimeStep bool `env:"GAMELOOP_FIXED_TIME_STEP" default:"false"`
	TargetFPS     int  `env:"GAMELOOP_TARGET_FPS" default:"60"`
	FrameLimit    int  `env:"GAMELOOP_FRAME_LIMIT" default:"0"` // 0 runs until interrupted
	DebugLayer    bool `env:"GAMELOOP_DEBUG_LAYER" default:"false"`

	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`
	MetricsAddr string `env:"METRICS_ADDR" default:":9090"` // empty disables the metrics server

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"5s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FrameInterval returns the fixed logic step, or zero in variable step mode.
func (c *Config) FrameInterval() time.Duration {
	if !c.FixedTimeStep {
		return 0
	}
	return time.Second / time.Duration(c.TargetFPS)
}

func validate(cfg *Config) error {
	if cfg.Width < MinWidth || cfg.Height < MinHeight {
		return fmt.Errorf("window size %dx%d is below the minimum %dx%d", cfg.Width, cfg.Height, MinWidth, MinHeight)
	}
	if cfg.TargetFPS <= 0 {
		return fmt.Errorf("GAMELOOP_TARGET_FPS must be positive, got %d", cfg.TargetFPS)
	}
	if cfg.FrameLimit < 0 {
		return fmt.Errorf("GAMELOOP_FRAME_LIMIT must not be negative, got %d", cfg.FrameLimit)
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	return nil
}
