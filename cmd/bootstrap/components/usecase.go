package components

import (
	"qrcard/internal/domain/issuance"
	"qrcard/internal/domain/token"
	"qrcard/internal/pkg/clock"
	"qrcard/internal/pkg/config"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/queries"
	"qrcard/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewIssuanceSettings,
	NewOperatorAccount,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewCardCommands,
		NewIssuanceCommands,
		commands.NewRedemptionCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCardQueries,
		queries.NewTokenQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewIssuanceSettings(cfg config.Config) (commands.IssuanceSettings, error) {
	payloads, err := token.NewPayloadBuilder(cfg.Issuance.BaseURL)
	if err != nil {
		return commands.IssuanceSettings{}, err
	}
	policy := issuance.Policy{
		MaxQuantity:      cfg.Issuance.MaxQuantity,
		MaxChunkSize:     cfg.Issuance.MaxChunkSize,
		DefaultChunkSize: cfg.Issuance.DefaultChunkSize,
		ArchiveCap:       cfg.Issuance.ArchiveCap,
		CollisionRetries: cfg.Issuance.CollisionRetries,
	}
	if err := policy.Validate(); err != nil {
		return commands.IssuanceSettings{}, errs.Wrap(err, "ISSUANCE_* settings")
	}
	return commands.IssuanceSettings{
		Policy:      policy,
		Payloads:    payloads,
		StoreDriver: cfg.Store.Driver,
	}, nil
}

func NewOperatorAccount(cfg config.Config) commands.OperatorAccount {
	return commands.OperatorAccount{
		Username:     cfg.Auth.OperatorUsername,
		PasswordHash: cfg.Auth.OperatorPasswordHash,
	}
}

func NewIssuanceCommands(
	uow shared.UnitOfWork,
	renderer commands.Renderer,
	exporter commands.Exporter,
	metrics commands.Metrics,
	clk clock.Clock,
	settings commands.IssuanceSettings,
) commands.IssuanceCommands {
	return commands.NewIssuanceCommands(uow, renderer, exporter, metrics, clk, settings)
}
