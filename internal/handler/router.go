package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"qrcard/internal/handler/api"
	"qrcard/internal/handler/middleware"
	"qrcard/internal/infra/metrics"
	"qrcard/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Auth     *api.AuthHandler
	Card     *api.CardHandler
	Issuance *api.IssuanceHandler
	Scan     *api.ScanHandler
	Token    *api.TokenHandler
}

func NewHandlers(auth *api.AuthHandler, card *api.CardHandler, iss *api.IssuanceHandler, scan *api.ScanHandler, token *api.TokenHandler) Handlers {
	return Handlers{Auth: auth, Card: card, Issuance: iss, Scan: scan, Token: token}
}

type RouterParams struct {
	fx.In

	Engine   *gin.Engine
	Config   config.Config
	Logger   *slog.Logger
	Handlers Handlers
	Auth     *middleware.AuthMiddleware
	Metrics  *metrics.Prometheus
}

func NewRouter(p RouterParams) {
	// recovery is outermost so it also covers the other middleware
	p.Engine.Use(
		middleware.CustomRecovery(),
		middleware.NewCORSMiddleware(p.Config.CORS),
		middleware.LoggingMiddleware(p.Logger, p.Config.Log),
		middleware.ErrorHandler(),
	)

	p.Engine.GET("/health", healthCheck)
	if p.Config.Metrics.Enabled {
		p.Engine.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	}
	if gin.Mode() == gin.DebugMode {
		p.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// the payload minted into every QR code points at these
	addRoutes(&p.Engine.RouterGroup, scanRoutes(p.Handlers))

	apiGroup := p.Engine.Group("/api")
	addRoutes(apiGroup.Group("/auth"), []route{
		{Method: http.MethodPost, Path: "/login", Handler: p.Handlers.Auth.Login},
	})

	operatorOnly := apiGroup.Group("", p.Auth.RequireAuth(), p.Auth.RequireOperator())
	addRoutes(operatorOnly, operatorRoutes(p.Handlers))
}

func scanRoutes(h Handlers) []route {
	noStore := []gin.HandlerFunc{middleware.NoStore()}
	return []route{
		{Method: http.MethodGet, Path: "/card/:card_id", Handler: h.Scan.RedeemCard, Mw: noStore},
		{Method: http.MethodGet, Path: "/scan", Handler: h.Scan.RedeemOrphan, Mw: noStore},
	}
}

func operatorRoutes(h Handlers) []route {
	return []route{
		{Method: http.MethodPost, Path: "/cards", Handler: h.Card.Create},
		{Method: http.MethodGet, Path: "/cards", Handler: h.Card.List},
		{Method: http.MethodGet, Path: "/cards/:id", Handler: h.Card.Get},
		{Method: http.MethodPost, Path: "/cards/:id/issuances", Handler: h.Issuance.Issue},
		{Method: http.MethodGet, Path: "/stats", Handler: h.Card.Stats},
		{Method: http.MethodGet, Path: "/tokens/:id", Handler: h.Token.Get},
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		chain := append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)
		g.Handle(r.Method, r.Path, chain...)
	}
}
