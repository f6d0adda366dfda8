//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"qrcard/internal/domain/operator"
	"qrcard/internal/pkg/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "jwt-test-secret"

func signRaw(t *testing.T, method gojwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestValidateToken(t *testing.T) {
	svc := jwt.NewService(secret, time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("operator", operator.RoleOperator)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "operator", claims.Subject)
		assert.Equal(t, operator.RoleOperator.String(), claims.Role)
		assert.Equal(t, jwt.Issuer, claims.Issuer)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := jwt.NewService(secret, -time.Minute).GenerateToken("operator", operator.RoleOperator)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	future := gojwt.NewNumericDate(time.Now().Add(time.Hour))
	tests := []struct {
		name  string
		token string
	}{
		{
			name: "foreign issuer",
			token: signRaw(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{
				Role:             operator.RoleOperator.String(),
				RegisteredClaims: gojwt.RegisteredClaims{Issuer: "someone-else", Subject: "operator", ExpiresAt: future},
			}),
		},
		{
			name: "no expiry",
			token: signRaw(t, gojwt.SigningMethodHS256, []byte(secret), jwt.Claims{
				Role:             operator.RoleOperator.String(),
				RegisteredClaims: gojwt.RegisteredClaims{Issuer: jwt.Issuer, Subject: "operator"},
			}),
		},
		{
			name: "other hmac size",
			token: signRaw(t, gojwt.SigningMethodHS512, []byte(secret), jwt.Claims{
				Role:             operator.RoleOperator.String(),
				RegisteredClaims: gojwt.RegisteredClaims{Issuer: jwt.Issuer, Subject: "operator", ExpiresAt: future},
			}),
		},
		{name: "garbage", token: "not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		})
	}
}
