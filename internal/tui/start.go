package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/config"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/logger"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/models"
	"github.com/revolution-of-the-dispossessed/Columbine/internal/store"
)

// Start loads the configuration from the environment and runs the game.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return Launch(cfg)
}

// Launch wires logging, rooms, storage and the engine from cfg and runs the
// terminal program.
func Launch(cfg *config.Config) error {
	base, closer, err := logger.Setup(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	log := logger.WithSession(base)

	reg, err := LoadRooms(cfg)
	if err != nil {
		logger.WithError(log, err).Error("Invalid room config")
		return err
	}

	st, err := OpenStore(context.Background(), cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to open store")
		return err
	}
	defer st.Close()

	g, err := NewGame(reg, log, cfg.EngineOptions())
	if err != nil {
		return err
	}
	log.Info("Game starting", "rooms", len(g.Engine.Registry().IDs()), "start", g.Engine.State().CurrentRoom)
	return Run(g, st, log)
}

// LoadRooms returns the embedded rooms unless cfg names a rooms file.
func LoadRooms(cfg *config.Config) (*models.Registry, error) {
	if cfg.RoomsFile != "" {
		return models.LoadRegistryFile(cfg.RoomsFile)
	}
	return models.DefaultRegistry()
}

// OpenStore returns the configured key-value backend.
func OpenStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		rs := store.NewRedisStore(cfg.RedisAddr, log)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, err
		}
		return rs, nil
	default:
		return store.NewFileStore(cfg.SaveDir), nil
	}
}
