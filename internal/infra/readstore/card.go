package readstore

import (
	"context"
	"time"

	"qrcard/internal/infra"
	"qrcard/internal/infra/db"
	"qrcard/internal/pkg/pgconv"
	"qrcard/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	getCardSQL = `SELECT id, name, company_name, phone, view_count, created_at
FROM cards
WHERE id = $1`

	listCardsSelect = `SELECT c.id, c.name, c.company_name, c.view_count, c.created_at,
       COUNT(t.id) AS token_count,
       COUNT(t.id) FILTER (WHERE t.state = 'spent') AS spent_count
FROM cards c
LEFT JOIN tokens t ON t.owner_card_id = c.id
`

	listCardsFirstPageSQL = listCardsSelect + `GROUP BY c.id
ORDER BY c.created_at DESC, c.id DESC
LIMIT $1`

	listCardsKeysetSQL = listCardsSelect + `WHERE (c.created_at, c.id) < ($1, $2)
GROUP BY c.id
ORDER BY c.created_at DESC, c.id DESC
LIMIT $3`

	storeStatsSQL = `SELECT (SELECT COUNT(*) FROM cards),
       COUNT(*),
       COUNT(*) FILTER (WHERE state = 'fresh'),
       COUNT(*) FILTER (WHERE state = 'spent')
FROM tokens`
)

type CardReadStore struct {
	db db.DBTX
}

func NewCardReadStore(dbtx db.DBTX) *CardReadStore {
	return &CardReadStore{db: dbtx}
}

func (r *CardReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CardView, error) {
	var (
		view  queries.CardView
		phone pgtype.Text
	)
	err := r.db.QueryRow(ctx, getCardSQL, id).
		Scan(&view.ID, &view.Name, &view.CompanyName, &phone, &view.ViewCount, &view.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("card not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get card by id", err)
	}
	view.Phone = pgconv.StringPtrFromPgtype(phone)
	return &view, nil
}

func (r *CardReadStore) ListFirstPage(ctx context.Context, limit int32) ([]*queries.CardListItem, error) {
	rows, err := r.db.Query(ctx, listCardsFirstPageSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cards first page", err)
	}
	return scanCardListItems(rows)
}

func (r *CardReadStore) ListKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.CardListItem, error) {
	rows, err := r.db.Query(ctx, listCardsKeysetSQL, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cards keyset", err)
	}
	return scanCardListItems(rows)
}

func (r *CardReadStore) Stats(ctx context.Context) (*queries.StoreStats, error) {
	var s queries.StoreStats
	err := r.db.QueryRow(ctx, storeStatsSQL).Scan(&s.Cards, &s.Tokens, &s.FreshTokens, &s.SpentTokens)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get store stats", err)
	}
	return &s, nil
}

func scanCardListItems(rows pgx.Rows) ([]*queries.CardListItem, error) {
	defer rows.Close()

	items := make([]*queries.CardListItem, 0)
	for rows.Next() {
		var it queries.CardListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.CompanyName, &it.ViewCount, &it.CreatedAt, &it.TokenCount, &it.SpentCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan card row", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate card rows", err)
	}
	return items, nil
}
