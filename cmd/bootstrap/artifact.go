package bootstrap

import (
	"qrcard/internal/infra/artifact"
	"qrcard/internal/infra/render"
	"qrcard/internal/pkg/config"
	"qrcard/internal/usecase/commands"

	"go.uber.org/fx"
)

var ArtifactModule = fx.Module("artifact",
	fx.Provide(
		NewRenderer,
		NewExporter,
	),
)

func NewRenderer(cfg config.Config) commands.Renderer {
	return render.NewQRRenderer(cfg.Issuance.ImageSize)
}

func NewExporter(cfg config.Config) commands.Exporter {
	return artifact.NewFSExporter(cfg.Issuance.ExportDir)
}
