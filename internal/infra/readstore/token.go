package readstore

import (
	"context"
	"encoding/json"
	"time"

	"qrcard/internal/domain/token"
	"qrcard/internal/infra"
	"qrcard/internal/infra/db"
	"qrcard/internal/pkg/pgconv"
	"qrcard/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getTokenSQL = `SELECT id, payload, owner_card_id, state, minted_at, spent_at, extra
FROM tokens
WHERE id = $1`

type TokenReadStore struct {
	db db.DBTX
}

func NewTokenReadStore(dbtx db.DBTX) *TokenReadStore {
	return &TokenReadStore{db: dbtx}
}

func (r *TokenReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TokenView, error) {
	var (
		tokenID  uuid.UUID
		payload  string
		owner    pgtype.UUID
		state    string
		mintedAt time.Time
		spentAt  pgtype.Timestamptz
		extra    []byte
	)
	err := r.db.QueryRow(ctx, getTokenSQL, id).
		Scan(&tokenID, &payload, &owner, &state, &mintedAt, &spentAt, &extra)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get token by id", err)
	}

	var ex token.Extra
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &ex); err != nil {
			return nil, infra.WrapRepoErr("failed to decode token extra", err)
		}
	}

	st, err := token.NewState(state)
	if err != nil {
		return nil, infra.WrapRepoErr("stored token has an unknown state", err)
	}
	t, err := token.Reconstruct(tokenID, payload, pgconv.UUIDPtrFromPgtype(owner), st,
		mintedAt.UTC(), pgconv.TimePtrFromPgtype(spentAt), ex)
	if err != nil {
		return nil, infra.WrapRepoErr("stored token is inconsistent", err)
	}
	return queries.NewTokenView(t), nil
}
