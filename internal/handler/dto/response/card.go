package response

import (
	"time"

	"qrcard/internal/usecase/queries"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CardResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	Phone       *string   `json:"phone,omitempty"`
	ViewCount   int64     `json:"view_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type CardListItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CompanyName string    `json:"company_name"`
	ViewCount   int64     `json:"view_count"`
	TokenCount  int64     `json:"token_count"`
	SpentCount  int64     `json:"spent_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type CardListResponse struct {
	Cards      []*CardListItemResponse `json:"cards"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

type StatsResponse struct {
	Cards       int64 `json:"cards"`
	Tokens      int64 `json:"tokens"`
	FreshTokens int64 `json:"fresh_tokens"`
	SpentTokens int64 `json:"spent_tokens"`
}

func FromCardView(v *queries.CardView) (*CardResponse, error) {
	var res CardResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromCardSnapshot(s *shared.CardSnapshot) (*CardResponse, error) {
	var res CardResponse
	if err := copier.Copy(&res, s); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromCardList(items []*queries.CardListItem, next *queries.Cursor) (*CardListResponse, error) {
	res := &CardListResponse{Cards: make([]*CardListItemResponse, 0, len(items))}
	if err := copier.Copy(&res.Cards, items); err != nil {
		return nil, err
	}
	if res.Cards == nil {
		res.Cards = []*CardListItemResponse{}
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}

func FromStoreStats(s *queries.StoreStats) *StatsResponse {
	return &StatsResponse{
		Cards:       s.Cards,
		Tokens:      s.Tokens,
		FreshTokens: s.FreshTokens,
		SpentTokens: s.SpentTokens,
	}
}
