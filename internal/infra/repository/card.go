package repository

import (
	"context"

	"qrcard/internal/domain/card"
	"qrcard/internal/infra"
	"qrcard/internal/infra/db"
	"qrcard/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	insertCardSQL = `INSERT INTO cards (id, name, company_name, phone, view_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	incrementViewCountSQL = `UPDATE cards SET view_count = view_count + 1 WHERE id = $1`
)

type CardRepository struct {
	db db.DBTX
}

func NewCardRepository(dbtx db.DBTX) *CardRepository {
	return &CardRepository{db: dbtx}
}

func (r *CardRepository) Create(ctx context.Context, c *card.Card) error {
	_, err := r.db.Exec(ctx, insertCardSQL,
		c.ID(),
		c.Name(),
		c.CompanyName(),
		pgconv.StringPtrToPgtype(c.Phone()),
		c.ViewCount(),
		pgconv.TimeToPgtype(c.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create card", err, infra.KindFromPgError(err))
	}
	return nil
}

// IncrementViewCount is a single relative update; concurrent callers never lose increments.
func (r *CardRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, incrementViewCountSQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment view count", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("card not found", nil, infra.KindNotFound)
	}
	return nil
}
