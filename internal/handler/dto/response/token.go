package response

import (
	"time"

	"qrcard/internal/usecase/queries"

	"github.com/google/uuid"
)

type TokenResponse struct {
	ID          uuid.UUID      `json:"id"`
	Payload     string         `json:"payload"`
	OwnerCardID *uuid.UUID     `json:"owner_card_id,omitempty"`
	State       string         `json:"state"`
	MintedAt    time.Time      `json:"minted_at"`
	SpentAt     *time.Time     `json:"spent_at,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

func FromTokenView(v *queries.TokenView) *TokenResponse {
	return &TokenResponse{
		ID:          v.ID,
		Payload:     v.Payload,
		OwnerCardID: v.OwnerCardID,
		State:       v.State,
		MintedAt:    v.MintedAt,
		SpentAt:     v.SpentAt,
		Extra:       v.Extra,
	}
}

// RedemptionResponse is returned to a scanner whose token was granted.
type RedemptionResponse struct {
	Status  string        `json:"status"`
	TokenID uuid.UUID     `json:"token_id"`
	SpentAt *time.Time    `json:"spent_at,omitempty"`
	Card    *CardResponse `json:"card"`
}
