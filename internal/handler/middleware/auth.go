package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"qrcard/internal/domain/operator"
	"qrcard/internal/handler/httperr"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase"

	"github.com/gin-gonic/gin"
)

var (
	errMissingToken      = errs.New("access token required")
	errInsufficientScope = errs.New("operator role required")
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxSubjectKey = "operator_subject"
	ctxRoleKey    = "operator_role"
)

var roleHierarchy = map[operator.Role]int{
	operator.RoleViewer:   1,
	operator.RoleOperator: 2,
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		subject, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxSubjectKey, subject)
		c.Set(ctxRoleKey, role)
		c.Next()
	}
}

// RequireOperator must run after RequireAuth.
func (m *AuthMiddleware) RequireOperator() gin.HandlerFunc {
	return m.RequireRoleAtLeast(operator.RoleOperator)
}

func hasMinimumRole(role, minRole operator.Role) bool {
	level, ok := roleHierarchy[role]
	minLevel, minOK := roleHierarchy[minRole]
	return ok && minOK && level >= minLevel
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole operator.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("role missing from context"), "Internal server error", nil)
			return
		}

		if !hasMinimumRole(role, minRole) {
			httperr.AbortWithError(c, http.StatusForbidden, errInsufficientScope, "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func GetSubject(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxSubjectKey)
	if !exists {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func GetRole(c *gin.Context) (operator.Role, bool) {
	v, exists := c.Get(ctxRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(operator.Role)
	return role, ok
}
