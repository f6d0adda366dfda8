package middleware

import (
	"log/slog"
	"slices"
	"strings"

	"qrcard/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// exposed on every response regardless of CORS_EXPOSE_HEADERS
var requiredExposeHeaders = []string{"Location", requestIDHeader}

// NewCORSMiddleware applies the operator console's CORS policy. Scan routes go
// through it too but are only ever hit by top-level navigation from a phone.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowOrigins
	if len(cfg.AllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.AllowMethods
	}
	if len(cfg.AllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.AllowHeaders
	}
	corsCfg.ExposeHeaders = mergeHeaders(cfg.ExposeHeaders, requiredExposeHeaders)
	corsCfg.AllowCredentials = cfg.AllowCredentials
	corsCfg.MaxAge = cfg.MaxAge

	slog.Info("CORS policy loaded",
		slog.Any("origins", corsCfg.AllowOrigins),
		slog.Any("expose", corsCfg.ExposeHeaders))
	return cors.New(corsCfg)
}

func mergeHeaders(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.ContainsFunc(out, func(c string) bool { return strings.EqualFold(c, h) }) {
			out = append(out, h)
		}
	}
	return out
}
