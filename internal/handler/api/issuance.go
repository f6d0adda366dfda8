package api

import (
	"net/http"

	reqdto "qrcard/internal/handler/dto/request"
	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/handler/httperr"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IssuanceHandler struct {
	cmds             commands.IssuanceCommands
	defaultChunkSize int
}

func NewIssuanceHandler(cmds commands.IssuanceCommands, settings commands.IssuanceSettings) *IssuanceHandler {
	return &IssuanceHandler{cmds: cmds, defaultChunkSize: settings.Policy.DefaultChunkSize}
}

// @Summary Issue tokens
// @Description Mint a batch of one-time tokens for a card. A failed or cancelled run reports its partial counts in detail.
// @Tags issuances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param request body reqdto.CreateIssuanceRequest true "Issuance request"
// @Success 201 {object} resdto.IssuanceResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/cards/{id}/issuances [post]
func (h *IssuanceHandler) Issue(c *gin.Context) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid card id", nil)
		return
	}
	var req reqdto.CreateIssuanceRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Issue(c.Request.Context(), req.ToDomain(cardID, h.defaultChunkSize), nil)
	if err != nil {
		var issErr *commands.IssuanceError
		if errs.As(err, &issErr) {
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Issuance failed", resdto.FromIssuanceResult(issErr.Result))
			return
		}
		switch status := httperr.StatusOf(err); status {
		case http.StatusBadRequest:
			httperr.AbortWithError(c, status, err, "Invalid issuance request", nil)
		case http.StatusNotFound:
			httperr.AbortWithError(c, status, err, "Card not found", nil)
		default:
			httperr.AbortWithError(c, status, err, "Issuance failed", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromIssuanceResult(result))
}
