package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"qrcard/internal/domain/token"
	"qrcard/internal/infra"
	"qrcard/internal/usecase/queries"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	insertTokenSQL = `INSERT INTO tokens (id, payload, owner_card_id, state, minted_at, extra)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`

	markTokenSpentSQL = `UPDATE tokens
SET state = 'spent', spent_at = ?
WHERE id = ? AND state = 'fresh'
RETURNING owner_card_id`

	getTokenSQL = `SELECT id, payload, owner_card_id, state, minted_at, spent_at, extra
FROM tokens
WHERE id = ?`
)

type TokenRepository struct {
	db DBTX
}

func NewTokenRepository(dbtx DBTX) *TokenRepository {
	return &TokenRepository{db: dbtx}
}

func (r *TokenRepository) InsertMany(ctx context.Context, tokens []*token.Token) ([]int, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	stmt, err := r.db.PrepareContext(ctx, insertTokenSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to prepare token insert", err)
	}
	defer stmt.Close()

	var conflicts []int
	for i, t := range tokens {
		extra, err := encodeExtra(t.Extra())
		if err != nil {
			return nil, infra.WrapRepoErr("failed to encode token extra", err)
		}
		res, err := stmt.ExecContext(ctx,
			t.ID(),
			t.Payload(),
			nullUUID(t.OwnerCardID()),
			t.State().String(),
			formatTime(t.MintedAt()),
			extra,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to insert tokens", err, kindFromError(err))
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, infra.WrapRepoErr("failed to read insert result", err)
		}
		if n == 0 {
			conflicts = append(conflicts, i)
		}
	}
	return conflicts, nil
}

func (r *TokenRepository) MarkSpent(ctx context.Context, id uuid.UUID, at time.Time) (shared.MarkSpentResult, error) {
	var owner uuid.NullUUID
	err := r.db.QueryRowContext(ctx, markTokenSpentSQL, formatTime(at), id).Scan(&owner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return shared.MarkSpentResult{}, nil
		}
		return shared.MarkSpentResult{}, infra.WrapRepoErr("failed to mark token spent", err)
	}
	return shared.MarkSpentResult{Spent: true, OwnerCardID: uuidPtr(owner)}, nil
}

type TokenReadStore struct {
	db DBTX
}

func NewTokenReadStore(dbtx DBTX) *TokenReadStore {
	return &TokenReadStore{db: dbtx}
}

func (r *TokenReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TokenView, error) {
	var (
		tokenID  uuid.UUID
		payload  string
		owner    uuid.NullUUID
		state    string
		mintedAt string
		spentAt  sql.NullString
		extra    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, getTokenSQL, id).
		Scan(&tokenID, &payload, &owner, &state, &mintedAt, &spentAt, &extra)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infra.WrapRepoErr("token not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get token by id", err)
	}

	minted, err := parseTime(mintedAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse minted_at", err)
	}
	spent, err := parseNullTime(spentAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to parse spent_at", err)
	}
	var ex token.Extra
	if extra.Valid && extra.String != "" {
		if err := json.Unmarshal([]byte(extra.String), &ex); err != nil {
			return nil, infra.WrapRepoErr("failed to decode token extra", err)
		}
	}

	st, err := token.NewState(state)
	if err != nil {
		return nil, infra.WrapRepoErr("stored token has an unknown state", err)
	}
	t, err := token.Reconstruct(tokenID, payload, uuidPtr(owner), st, minted, spent, ex)
	if err != nil {
		return nil, infra.WrapRepoErr("stored token is inconsistent", err)
	}
	return queries.NewTokenView(t), nil
}

func encodeExtra(extra token.Extra) (sql.NullString, error) {
	if len(extra) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
