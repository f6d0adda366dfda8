package bootstrap

import (
	"qrcard/internal/infra/metrics"
	"qrcard/internal/pkg/config"
	"qrcard/internal/usecase/commands"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewPrometheus,
		NewMetrics,
	),
)

func NewPrometheus(cfg config.Config) *metrics.Prometheus {
	return metrics.NewPrometheus(cfg.Metrics.Namespace)
}

// NewMetrics hands the usecases a no-op sink when metrics are disabled.
func NewMetrics(cfg config.Config, prom *metrics.Prometheus) commands.Metrics {
	if !cfg.Metrics.Enabled {
		return commands.NopMetrics{}
	}
	return prom
}
