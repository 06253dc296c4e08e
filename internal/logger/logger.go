package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/config"
)

// Setup configures the global slog logger. The terminal belongs to the UI,
// so output goes to cfg.LogFile. The returned closer releases the file.
func Setup(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(f, cfg), f, nil
}

// New builds a logger writing to w and sets it as the default.
func New(w io.Writer, cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		// JSON format for production
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

// WithSession tags every record with a fresh session id.
func WithSession(logger *slog.Logger) *slog.Logger {
	return logger.With("session_id", uuid.NewString())
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
