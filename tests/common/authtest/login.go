//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"qrcard/internal/handler/dto/request"
	"qrcard/internal/handler/dto/response"
	"qrcard/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// OperatorPassword matches the hash in config.NewTestConfig.
const OperatorPassword = "password123"

func Login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Username: username, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res response.LoginResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	require.NotEmpty(t, res.AccessToken, "Access token is empty")

	return res.AccessToken
}

func LoginOperator(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	return Login(t, router, username, OperatorPassword)
}
