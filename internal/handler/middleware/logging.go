package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"qrcard/internal/pkg/config"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
	stackLines      = 12
)

type requestLogger struct {
	logger *slog.Logger
	zone   *time.Location
}

// LoggingMiddleware logs one line per request and echoes the request id in
// X-Request-ID. A well-formed id sent by the caller is reused. A nil log
// falls back to slog.Default.
func LoggingMiddleware(log *slog.Logger, cfg config.LogConfig) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	rl := &requestLogger{logger: log, zone: logger.Zone(cfg)}
	return rl.handle
}

func (rl *requestLogger) handle(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if !validRequestID(requestID) {
		requestID = rl.newRequestID(start)
	}
	c.Set(requestIDKey, requestID)
	c.Header(requestIDHeader, requestID)

	attrs := []slog.Attr{
		slog.String("request_id", requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("client_ip", c.ClientIP()),
	}
	if route := c.FullPath(); route != "" {
		attrs = append(attrs, slog.String("route", route))
	}
	rl.logger.LogAttrs(context.Background(), slog.LevelDebug, "Request started", attrs...)

	c.Next()

	status := c.Writer.Status()
	attrs = append(attrs,
		slog.Int("status_code", status),
		slog.Duration("duration", time.Since(start)),
	)
	// claims are set by the auth middleware inside the route group
	if subject, ok := GetSubject(c); ok {
		attrs = append(attrs, slog.String("operator", subject))
	}
	if role, ok := GetRole(c); ok {
		attrs = append(attrs, slog.String("role", role.String()))
	}
	if size := c.Writer.Size(); size > 0 {
		attrs = append(attrs, slog.Int("response_size", size))
	}
	if last := c.Errors.Last(); last != nil {
		attrs = append(attrs, slog.String("errors", c.Errors.String()))
		if status >= 500 {
			attrs = append(attrs, slog.Any("stack", errs.ExtractStackLines(last.Err, stackLines)))
		}
	}

	rl.logger.LogAttrs(context.Background(), levelFor(status), "Request completed", attrs...)
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// newRequestID is a sortable local timestamp plus 8 random hex digits.
func (rl *requestLogger) newRequestID(now time.Time) string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return now.In(rl.zone).Format("20060102150405") + "-" + hex.EncodeToString(b[:])
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r == '-', r == '_', r == '.':
		case '0' <= r && r <= '9', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
