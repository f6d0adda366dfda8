package api

import (
	"log/slog"
	"net/http"

	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/handler/httperr"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotGrantedMessage is shared by spent, unknown and malformed tokens so a
// scanner cannot tell them apart.
const NotGrantedMessage = "This QR code is invalid or has already been used"

var errNotGranted = errs.Mark(errs.New("redemption not granted"), errs.ErrNotFound)

type ScanHandler struct {
	cmds commands.RedemptionCommands
}

func NewScanHandler(cmds commands.RedemptionCommands) *ScanHandler {
	return &ScanHandler{cmds: cmds}
}

// @Summary Redeem a card token
// @Description Spends the token carried in qr and returns the card on first use
// @Tags scan
// @Produce json
// @Param card_id path string true "Card ID printed in the payload"
// @Param qr query string true "Token ID"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 404 {object} httperr.Response
// @Router /card/{card_id} [get]
func (h *ScanHandler) RedeemCard(c *gin.Context) {
	h.redeem(c, c.Param("card_id"))
}

// @Summary Redeem an orphan token
// @Tags scan
// @Produce json
// @Param qr query string true "Token ID"
// @Success 200 {object} resdto.RedemptionResponse
// @Failure 404 {object} httperr.Response
// @Router /scan [get]
func (h *ScanHandler) RedeemOrphan(c *gin.Context) {
	h.redeem(c, "")
}

func (h *ScanHandler) redeem(c *gin.Context, pathCardID string) {
	tokenID, err := uuid.Parse(c.Query("qr"))
	if err != nil {
		slog.Info("scan rejected", "reason", "malformed token id")
		httperr.AbortWithError(c, http.StatusNotFound, errs.Wrap(errNotGranted, "malformed token id"), NotGrantedMessage, nil)
		return
	}

	out, err := h.cmds.Redeem(c.Request.Context(), tokenID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	if !out.Granted() {
		httperr.AbortWithError(c, http.StatusNotFound, errs.Wrap(errNotGranted, string(out.Status)), NotGrantedMessage, nil)
		return
	}

	// The token alone is the credential; the path id is informational.
	if pathCardID != "" && pathCardID != out.Card.ID.String() {
		slog.Warn("scan path card differs from token owner",
			"token_id", tokenID.String(),
			"path_card_id", pathCardID,
			"card_id", out.Card.ID.String())
	}

	card, err := resdto.FromCardSnapshot(out.Card)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.RedemptionResponse{
		Status:  string(out.Status),
		TokenID: out.TokenID,
		SpentAt: out.SpentAt,
		Card:    card,
	})
}
