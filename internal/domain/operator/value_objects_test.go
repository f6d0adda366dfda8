//go:build unit

package operator_test

import (
	"testing"

	"qrcard/internal/domain/operator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		errIs    error
	}{
		{name: "valid credentials", username: "operator", password: "password123"},
		{name: "username is trimmed", username: "  operator  ", password: "password123"},
		{name: "empty username", username: "   ", password: "password123", errIs: operator.ErrInvalidUsername},
		{name: "short password", username: "operator", password: "short", errIs: operator.ErrPasswordTooWeak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := operator.NewCredentials(tt.username, tt.password)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "operator", creds.Username())
			assert.Equal(t, tt.password, creds.Password())
		})
	}
}

func TestNewRole(t *testing.T) {
	role, err := operator.NewRole("operator")
	require.NoError(t, err)
	assert.Equal(t, operator.RoleOperator, role)

	_, err = operator.NewRole("root")
	assert.ErrorIs(t, err, operator.ErrInvalidRole)
}
