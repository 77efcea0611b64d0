package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// LogConfig feeds obslog.Init; every field reads a LOG_ prefixed variable.
type LogConfig struct {
	Level     string `env:"LEVEL" envDefault:"info"`
	Format    string `env:"FORMAT" envDefault:"legacy"`
	ToConsole bool   `env:"TO_CONSOLE" envDefault:"true"`
	ToFile    bool   `env:"TO_FILE" envDefault:"true"`
	File      string `env:"FILE" envDefault:"logs/bot.log"`
	Caller    bool   `env:"CALLER" envDefault:"false"`
}

type AppConfig struct {
	IrisBaseURL string `env:"IRIS_BASE_URL"`
	IrisWSURL   string `env:"IRIS_WS_URL"`

	BotPrefix string `env:"BOT_PREFIX"`

	XUserID    string `env:"X_USER_ID"`
	XUserEmail string `env:"X_USER_EMAIL"`
	XSessionID string `env:"X_SESSION_ID"`

	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	DatabaseURL string `env:"DATABASE_URL"`

	AllowedRooms []string `env:"ALLOWED_ROOMS" envSeparator:","`
	EgressMode   string   `env:"EGRESS_MODE" envDefault:"auto"`

	ChallengeTTL  time.Duration `env:"CHALLENGE_TTL" envDefault:"2m"`
	TurnTimeout   time.Duration `env:"TURN_TIMEOUT" envDefault:"5m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"15s"`
	HistoryLimit  int           `env:"HISTORY_LIMIT" envDefault:"10"`

	StarterDeckFile string `env:"STARTER_DECK_FILE"`
	MessagesDir     string `env:"MESSAGES_DIR"`
	HTTPAddr        string `env:"HTTP_ADDR"`

	Log LogConfig `envPrefix:"LOG_"`
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()

	if cfg.IrisBaseURL == "" {
		return nil, errors.New("IRIS_BASE_URL is required")
	}
	if cfg.IrisWSURL == "" {
		return nil, errors.New("IRIS_WS_URL is required")
	}
	if cfg.BotPrefix == "" {
		return nil, errors.New("BOT_PREFIX is required")
	}
	switch cfg.EgressMode {
	case "http", "ws", "auto":
	default:
		return nil, fmt.Errorf("EGRESS_MODE must be http, ws or auto, got %q", cfg.EgressMode)
	}
	if cfg.TurnTimeout <= 0 || cfg.SweepInterval <= 0 || cfg.ChallengeTTL <= 0 {
		return nil, errors.New("CHALLENGE_TTL, TURN_TIMEOUT and SWEEP_INTERVAL must be positive")
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 10
	}
	return cfg, nil
}

func (c *AppConfig) normalize() {
	c.IrisBaseURL = strings.TrimSpace(c.IrisBaseURL)
	c.IrisWSURL = strings.TrimSpace(c.IrisWSURL)
	c.BotPrefix = strings.TrimSpace(c.BotPrefix)
	c.EgressMode = strings.ToLower(strings.TrimSpace(c.EgressMode))
	rooms := c.AllowedRooms[:0]
	for _, r := range c.AllowedRooms {
		if s := strings.TrimSpace(r); s != "" {
			rooms = append(rooms, s)
		}
	}
	c.AllowedRooms = rooms
}
