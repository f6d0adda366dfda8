package api

import (
	"net/http"

	reqdto "qrcard/internal/handler/dto/request"
	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/handler/httperr"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	cmds commands.AuthCommands
}

func NewAuthHandler(cmds commands.AuthCommands) *AuthHandler {
	return &AuthHandler{cmds: cmds}
}

// @Summary Operator login
// @Description Exchange the operator credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	res, err := h.cmds.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidCredentials), errs.Is(err, commands.ErrAuthenticationFailed):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid username or password", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(res.ExpiresIn.Seconds()),
		Role:        res.Role.String(),
	})
}
