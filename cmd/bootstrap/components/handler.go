package components

import (
	"qrcard/internal/handler"
	"qrcard/internal/handler/api"
	"qrcard/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewCardHandler,
		api.NewIssuanceHandler,
		api.NewScanHandler,
		api.NewTokenHandler,
		handler.NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
