package bootstrap

import (
	"qrcard/cmd/bootstrap/components"
	"qrcard/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(config.LoadConfig),
)

// CoreModule is everything but the HTTP layer; the bulk generator runs on it.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	ArtifactModule,
	MetricsModule,
	components.RepositoryModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	components.HandlerModule,
)
