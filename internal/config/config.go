package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/engine"
)

const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config holds the application configuration.
type Config struct {
	RoomsFile string // empty uses the embedded rooms
	StartRoom string // empty uses the registry's start room

	LoadingDelay    time.Duration
	SettleDelay     time.Duration
	LoadingSegments int
	Transitions     engine.TransitionPolicy
	Popups          engine.PopupPolicy

	Store     string
	SaveDir   string
	RedisAddr string

	Environment string
	LogLevel    slog.Level
	LogFile     string
}

// EngineOptions maps the config onto engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		StartRoom:       c.StartRoom,
		LoadingDelay:    c.LoadingDelay,
		SettleDelay:     c.SettleDelay,
		LoadingSegments: c.LoadingSegments,
		Transitions:     c.Transitions,
		Popups:          c.Popups,
	}
}

// LoadConfig loads the configuration from environment variables. Every
// invalid value is reported, not just the first.
func LoadConfig() (*Config, error) {
	el := errors.NewErrorList()

	cfg := &Config{
		RoomsFile:   os.Getenv("ROOMS_FILE"),
		StartRoom:   os.Getenv("START_ROOM"),
		Transitions: engine.TransitionPolicy(getEnv("TRANSITION_POLICY", string(engine.TransitionQueue))),
		Popups:      engine.PopupPolicy(getEnv("POPUP_POLICY", string(engine.PopupEphemeral))),
		Store:       getEnv("STORE", StoreFile),
		SaveDir:     getEnv("SAVE_DIR", ".saves"),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:     getEnv("LOG_FILE", "manor.log"),
	}

	var err error
	if cfg.LoadingDelay, err = getDuration("LOADING_DELAY", engine.DefaultLoadingDelay); err != nil {
		el.Add(err)
	}
	if cfg.SettleDelay, err = getDuration("SETTLE_DELAY", engine.DefaultSettleDelay); err != nil {
		el.Add(err)
	}
	if cfg.LoadingSegments, err = getInt("LOADING_SEGMENTS", engine.DefaultLoadingSegments); err != nil {
		el.Add(err)
	}

	switch cfg.Transitions {
	case engine.TransitionQueue, engine.TransitionReject:
	default:
		el.Add(fmt.Errorf("invalid TRANSITION_POLICY %q (must be %s or %s)",
			cfg.Transitions, engine.TransitionQueue, engine.TransitionReject))
	}
	switch cfg.Popups {
	case engine.PopupEphemeral, engine.PopupPersistent:
	default:
		el.Add(fmt.Errorf("invalid POPUP_POLICY %q (must be %s or %s)",
			cfg.Popups, engine.PopupEphemeral, engine.PopupPersistent))
	}
	switch cfg.Store {
	case StoreFile, StoreRedis:
	default:
		el.Add(fmt.Errorf("invalid STORE %q (must be %s or %s)", cfg.Store, StoreFile, StoreRedis))
	}

	if err := el.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
