package repository

import (
	"context"
	"time"

	"qrcard/internal/domain/token"
	"qrcard/internal/infra"
	"qrcard/internal/infra/db"
	"qrcard/internal/pkg/pgconv"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertTokenSQL = `INSERT INTO tokens (id, payload, owner_card_id, state, minted_at, extra)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT DO NOTHING`

	markTokenSpentSQL = `UPDATE tokens
SET state = 'spent', spent_at = $2
WHERE id = $1 AND state = 'fresh'
RETURNING owner_card_id`
)

type TokenRepository struct {
	db db.DBTX
}

func NewTokenRepository(dbtx db.DBTX) *TokenRepository {
	return &TokenRepository{db: dbtx}
}

// InsertMany sends one statement per token in a single batch round trip.
// A statement that affected no rows hit a uniqueness conflict.
func (r *TokenRepository) InsertMany(ctx context.Context, tokens []*token.Token) ([]int, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, t := range tokens {
		batch.Queue(insertTokenSQL,
			t.ID(),
			t.Payload(),
			pgconv.UUIDPtrToPgtype(t.OwnerCardID()),
			t.State().String(),
			pgconv.TimeToPgtype(t.MintedAt()),
			extraParam(t.Extra()),
		)
	}

	br := r.db.SendBatch(ctx, batch)
	var conflicts []int
	for i := range tokens {
		tag, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return nil, infra.WrapRepoErr("failed to insert tokens", err, infra.KindFromPgError(err))
		}
		if tag.RowsAffected() == 0 {
			conflicts = append(conflicts, i)
		}
	}
	if err := br.Close(); err != nil {
		return nil, infra.WrapRepoErr("failed to close token batch", err)
	}
	return conflicts, nil
}

func (r *TokenRepository) MarkSpent(ctx context.Context, id uuid.UUID, at time.Time) (shared.MarkSpentResult, error) {
	var owner pgtype.UUID
	err := r.db.QueryRow(ctx, markTokenSpentSQL, id, pgconv.TimeToPgtype(at)).Scan(&owner)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return shared.MarkSpentResult{}, nil
		}
		return shared.MarkSpentResult{}, infra.WrapRepoErr("failed to mark token spent", err)
	}
	return shared.MarkSpentResult{Spent: true, OwnerCardID: pgconv.UUIDPtrFromPgtype(owner)}, nil
}

// extraParam stores an empty map as NULL.
func extraParam(extra token.Extra) any {
	if len(extra) == 0 {
		return nil
	}
	return map[string]any(extra)
}
