// Package logger builds the process-wide slog logger from LogConfig.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"qrcard/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

// New installs and returns a logger writing to stdout.
func New(cfg config.LogConfig) *slog.Logger {
	l := slog.New(NewHandler(os.Stdout, cfg))
	slog.SetDefault(l)
	return l
}

// NewHandler renders timestamps in the configured zone and format.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	zone := Zone(cfg)
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 || a.Key != slog.TimeKey || cfg.TimeFormat == "" {
				return a
			}
			if t, ok := a.Value.Any().(time.Time); ok {
				a.Value = slog.StringValue(t.In(zone).Format(cfg.TimeFormat))
			}
			return a
		},
	}
	if useJSON(cfg.Format) {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel accepts slog level names in any case; unknown input means info.
func ParseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func Zone(cfg config.LogConfig) *time.Location {
	if cfg.TimeZone == "" {
		return time.UTC
	}
	return time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)
}

func useJSON(format string) bool {
	switch strings.ToLower(format) {
	case "json":
		return true
	case "text":
		return false
	default:
		return gin.Mode() == gin.ReleaseMode
	}
}
