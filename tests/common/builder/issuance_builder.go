//go:build unit || e2e

package builder

import (
	"time"

	"qrcard/internal/domain/issuance"
	reqdto "qrcard/internal/handler/dto/request"

	"github.com/google/uuid"
)

type IssuanceBuilder struct {
	CardID        uuid.UUID
	Quantity      int
	ChunkSize     int
	RenderImages  bool
	BuildArchives bool
	Extra         map[string]any
}

func NewIssuanceBuilder() *IssuanceBuilder {
	return &IssuanceBuilder{
		CardID:    uuid.New(),
		Quantity:  3,
		ChunkSize: 2,
		Extra:     map[string]any{"campaign": "spring"},
	}
}

func (b *IssuanceBuilder) With(mutate func(*IssuanceBuilder)) *IssuanceBuilder {
	mutate(b)
	return b
}

func (b *IssuanceBuilder) BuildRequestDTO() reqdto.CreateIssuanceRequest {
	chunk := b.ChunkSize
	render := b.RenderImages
	archives := b.BuildArchives
	return reqdto.CreateIssuanceRequest{
		Quantity:      b.Quantity,
		ChunkSize:     &chunk,
		RenderImages:  &render,
		BuildArchives: &archives,
		Extra:         b.Extra,
	}
}

func (b *IssuanceBuilder) BuildDomainRequest() issuance.Request {
	return issuance.Request{
		CardID:        b.CardID,
		Quantity:      b.Quantity,
		ChunkSize:     b.ChunkSize,
		RenderImages:  b.RenderImages,
		BuildArchives: b.BuildArchives,
		Extra:         b.Extra,
	}
}

// BuildResult returns a completed run that minted minted tokens.
func (b *IssuanceBuilder) BuildResult(minted int) *issuance.Result {
	return &issuance.Result{
		RunID:     "01JXA5V3Q0RZ6J2D4M8N7K9P1T",
		CardID:    b.CardID,
		Requested: b.Quantity,
		Minted:    minted,
		Rendered:  0,
		Chunks:    (minted + b.ChunkSize - 1) / b.ChunkSize,
		Manifest:  issuance.Manifest{RunID: "01JXA5V3Q0RZ6J2D4M8N7K9P1T", CardID: b.CardID},
		Elapsed:   1500 * time.Millisecond,
	}
}
