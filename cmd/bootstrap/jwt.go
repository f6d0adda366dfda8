package bootstrap

import (
	"log/slog"
	"time"

	"qrcard/internal/pkg/config"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/pkg/jwt"

	"go.uber.org/fx"
)

// HS256 keys shorter than the hash output weaken the signature.
const minSecretLen = 32

var JWTModule = fx.Module("jwt",
	fx.Provide(NewJWTService),
)

// NewJWTService signs operator sessions with JWT_SECRET for JWT_DURATION.
func NewJWTService(cfg config.Config) (*jwt.Service, error) {
	duration, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, errs.Wrap(err, "invalid JWT_DURATION")
	}
	if duration <= 0 {
		return nil, errs.New("JWT_DURATION must be positive")
	}
	if len(cfg.JWT.Secret) < minSecretLen {
		slog.Warn("JWT_SECRET is shorter than recommended", "length", len(cfg.JWT.Secret), "recommended", minSecretLen)
	}
	return jwt.NewService(cfg.JWT.Secret, duration), nil
}
