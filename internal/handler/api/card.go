package api

import (
	"net/http"
	"strconv"

	reqdto "qrcard/internal/handler/dto/request"
	resdto "qrcard/internal/handler/dto/response"
	"qrcard/internal/handler/httperr"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cmds commands.CardCommands
	q    queries.CardQueries
}

func NewCardHandler(cmds commands.CardCommands, q queries.CardQueries) *CardHandler {
	return &CardHandler{cmds: cmds, q: q}
}

// @Summary Create card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateCardRequest true "Card"
// @Success 201 {object} resdto.CardResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Router /api/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req reqdto.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	id, err := h.cmds.CreateCard(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.AbortWithError(c, httperr.StatusOf(err), err, "Create card failed", nil)
		return
	}

	view, err := h.q.GetCard(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load card", nil)
		return
	}
	res, err := resdto.FromCardView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.Header("Location", "/api/cards/"+id.String())
	c.JSON(http.StatusCreated, res)
}

// @Summary Get card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} resdto.CardResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/cards/{id} [get]
func (h *CardHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetCard(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, httperr.StatusOf(err), err, "Card not found", nil)
		return
	}
	res, err := resdto.FromCardView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary List cards
// @Description Cards with their token counts, newest first, keyset paginated
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.CardListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/cards [get]
func (h *CardHandler) List(c *gin.Context) {
	limit := queries.DefaultListLimit
	if v := c.Query("limit"); v != "" {
		iv, err := strconv.Atoi(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid limit", nil)
			return
		}
		limit = queries.ValidateLimit(iv)
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListCards(c.Request.Context(), cursor, limit)
	if err != nil {
		httperr.AbortWithError(c, httperr.StatusOf(err), err, "List cards failed", nil)
		return
	}
	res, err := resdto.FromCardList(items, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal error", nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Store statistics
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.StatsResponse
// @Router /api/stats [get]
func (h *CardHandler) Stats(c *gin.Context) {
	stats, err := h.q.Stats(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to get stats", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromStoreStats(stats))
}
