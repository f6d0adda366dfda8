//go:build unit || e2e

package builder

import (
	"time"

	"qrcard/internal/domain/card"
	reqdto "qrcard/internal/handler/dto/request"
	"qrcard/internal/usecase/queries"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
)

type CardBuilder struct {
	ID          uuid.UUID
	Name        string
	CompanyName string
	Phone       *string
	ViewCount   int64
	TokenCount  int64
	SpentCount  int64
	CreatedAt   time.Time
}

func NewCardBuilder() *CardBuilder {
	phone := "+81-3-0000-0000"
	return &CardBuilder{
		ID:          uuid.New(),
		Name:        "Hanako Sato",
		CompanyName: "Acme Corp",
		Phone:       &phone,
		CreatedAt:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *CardBuilder) With(mutate func(*CardBuilder)) *CardBuilder {
	mutate(b)
	return b
}

func (b *CardBuilder) BuildDomain() *card.Card {
	return card.Reconstruct(b.ID, b.Name, b.CompanyName, b.Phone, b.ViewCount, b.CreatedAt)
}

func (b *CardBuilder) BuildCreateRequestDTO() reqdto.CreateCardRequest {
	return reqdto.CreateCardRequest{
		Name:        b.Name,
		CompanyName: b.CompanyName,
		Phone:       b.Phone,
	}
}

func (b *CardBuilder) BuildView() *queries.CardView {
	return &queries.CardView{
		ID:          b.ID,
		Name:        b.Name,
		CompanyName: b.CompanyName,
		Phone:       b.Phone,
		ViewCount:   b.ViewCount,
		CreatedAt:   b.CreatedAt,
	}
}

func (b *CardBuilder) BuildListItem() *queries.CardListItem {
	return &queries.CardListItem{
		ID:          b.ID,
		Name:        b.Name,
		CompanyName: b.CompanyName,
		ViewCount:   b.ViewCount,
		TokenCount:  b.TokenCount,
		SpentCount:  b.SpentCount,
		CreatedAt:   b.CreatedAt,
	}
}

func (b *CardBuilder) BuildSnapshot() *shared.CardSnapshot {
	return &shared.CardSnapshot{
		ID:          b.ID,
		Name:        b.Name,
		CompanyName: b.CompanyName,
		Phone:       b.Phone,
		ViewCount:   b.ViewCount,
		CreatedAt:   b.CreatedAt,
	}
}
