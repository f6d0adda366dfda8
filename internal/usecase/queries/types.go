package queries

import (
	"time"

	"qrcard/internal/domain/token"

	"github.com/google/uuid"
)

// CardView represents read-optimized card data
type CardView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	Phone       *string   `json:"phone,omitempty"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CardListItem is a card row with its token counts.
type CardListItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	ViewCount   int64     `json:"view_count"`
	TokenCount  int64     `json:"token_count"`
	SpentCount  int64     `json:"spent_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// StoreStats summarizes the whole token store.
type StoreStats struct {
	Cards       int64 `json:"cards"`
	Tokens      int64 `json:"tokens"`
	FreshTokens int64 `json:"fresh_tokens"`
	SpentTokens int64 `json:"spent_tokens"`
}

// TokenView represents a token without consuming it
type TokenView struct {
	ID          uuid.UUID      `json:"id"`
	Payload     string         `json:"payload"`
	OwnerCardID *uuid.UUID     `json:"owner_card_id,omitempty"`
	State       string         `json:"state"`
	MintedAt    time.Time      `json:"minted_at"`
	SpentAt     *time.Time     `json:"spent_at,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

func NewTokenView(t *token.Token) *TokenView {
	v := &TokenView{
		ID:          t.ID(),
		Payload:     t.Payload(),
		OwnerCardID: t.OwnerCardID(),
		State:       t.State().String(),
		MintedAt:    t.MintedAt(),
		SpentAt:     t.SpentAt(),
	}
	if len(t.Extra()) > 0 {
		v.Extra = t.Extra()
	}
	return v
}
