package bootstrap

import (
	"log/slog"

	"qrcard/internal/pkg/config"
	"qrcard/internal/pkg/logger"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(NewLogger),
)

// NewLogger builds the process logger and installs it as the slog default.
func NewLogger(cfg config.Config) *slog.Logger {
	return logger.New(cfg.Log)
}
