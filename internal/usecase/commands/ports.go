package commands

import (
	"context"
	"time"

	"qrcard/internal/domain/issuance"

	"github.com/google/uuid"
)

// Renderer turns a token payload into an image artifact.
type Renderer interface {
	Render(payload string) ([]byte, error)
}

type ExportInfo struct {
	RunID       string
	CardID      uuid.UUID
	CompanyName string
	Slug        string
	BaseURL     string
	StoreDriver string
	Requested   int
	StartedAt   time.Time
}

// Exporter opens the per-run output location for images, archives and the manifest.
type Exporter interface {
	Begin(ctx context.Context, info ExportInfo) (Export, error)
}

type Export interface {
	SegmentStore
	Dir() string
	SaveImage(name string, data []byte) error
	WriteManifest(m issuance.Manifest) error
	Size() (int64, error)
}

type SegmentStore interface {
	CreateSegment(name string) (SegmentWriter, error)
}

type SegmentWriter interface {
	Add(name string, data []byte) error
	Finalize() error
}

// Metrics receives issuance and redemption telemetry.
type Metrics interface {
	ObserveChunk(written int)
	ObserveSkipped(n int)
	ObserveProgress(p issuance.Progress)
	ObserveRun(outcome string, elapsed time.Duration)
	ObserveRedemption(status string)
}

type NopMetrics struct{}

func (NopMetrics) ObserveChunk(int)                  {}
func (NopMetrics) ObserveSkipped(int)                {}
func (NopMetrics) ObserveProgress(issuance.Progress) {}
func (NopMetrics) ObserveRun(string, time.Duration)  {}
func (NopMetrics) ObserveRedemption(string)          {}
