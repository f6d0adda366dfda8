//go:build unit || e2e

// Package authtest signs operator tokens directly and logs in through the API.
package authtest

import (
	"testing"
	"time"

	"qrcard/internal/domain/operator"
	"qrcard/internal/pkg/config"
	"qrcard/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
)

// JWTHelper signs tokens with the app's secret without going through login.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, subject string, role operator.Role) string {
	t.Helper()
	ttl, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err, "JWT_DURATION in test config")
	return h.sign(t, ttl, subject, role)
}

// CreateExpiredToken is correctly signed but expired a minute ago.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, subject string, role operator.Role) string {
	t.Helper()
	return h.sign(t, -time.Minute, subject, role)
}

func (h *JWTHelper) sign(t *testing.T, ttl time.Duration, subject string, role operator.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, ttl).GenerateToken(subject, role)
	require.NoError(t, err)
	return token
}
