package api

import (
	"net/http"

	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/handler/httperr"
	"qrcard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TokenHandler struct {
	q queries.TokenQueries
}

func NewTokenHandler(q queries.TokenQueries) *TokenHandler {
	return &TokenHandler{q: q}
}

// @Summary Inspect token
// @Description Shows a token's state without consuming it
// @Tags tokens
// @Produce json
// @Security BearerAuth
// @Param id path string true "Token ID"
// @Success 200 {object} resdto.TokenResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/tokens/{id} [get]
func (h *TokenHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetToken(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, httperr.StatusOf(err), err, "Token not found", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromTokenView(view))
}
