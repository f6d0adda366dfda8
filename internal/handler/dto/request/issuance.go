package request

import (
	"qrcard/internal/domain/issuance"
	"qrcard/internal/domain/token"

	"github.com/google/uuid"
)

// CreateIssuanceRequest starts a batch for the card in the path.
// An omitted chunk size falls back to the configured default; the other
// omitted options are off.
type CreateIssuanceRequest struct {
	Quantity      int            `json:"quantity" binding:"required,min=1"`
	ChunkSize     *int           `json:"chunk_size,omitempty" binding:"omitempty,min=1"`
	RenderImages  *bool          `json:"render_images,omitempty"`
	BuildArchives *bool          `json:"build_archives,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

func (r *CreateIssuanceRequest) ToDomain(cardID uuid.UUID, defaultChunkSize int) issuance.Request {
	return issuance.Request{
		CardID:        cardID,
		Quantity:      r.Quantity,
		ChunkSize:     derefOr(r.ChunkSize, defaultChunkSize),
		RenderImages:  deref(r.RenderImages),
		BuildArchives: deref(r.BuildArchives),
		Extra:         token.Extra(r.Extra),
	}
}

func deref[T any](p *T) T {
	var zero T
	return derefOr(p, zero)
}

func derefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
