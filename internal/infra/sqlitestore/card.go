package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrcard/internal/domain/card"
	"qrcard/internal/infra"
	"qrcard/internal/usecase/queries"

	"github.com/google/uuid"
)

const (
	insertCardSQL = `INSERT INTO cards (id, name, company_name, phone, view_count, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	incrementViewCountSQL = `UPDATE cards SET view_count = view_count + 1 WHERE id = ?`

	getCardSQL = `SELECT id, name, company_name, phone, view_count, created_at
FROM cards
WHERE id = ?`

	listCardsSelect = `SELECT c.id, c.name, c.company_name, c.view_count, c.created_at,
       COUNT(t.id) AS token_count,
       COUNT(CASE WHEN t.state = 'spent' THEN 1 END) AS spent_count
FROM cards c
LEFT JOIN tokens t ON t.owner_card_id = c.id
`

	listCardsFirstPageSQL = listCardsSelect + `GROUP BY c.id
ORDER BY c.created_at DESC, c.id DESC
LIMIT ?`

	listCardsKeysetSQL = listCardsSelect + `WHERE (c.created_at, c.id) < (?, ?)
GROUP BY c.id
ORDER BY c.created_at DESC, c.id DESC
LIMIT ?`

	storeStatsSQL = `SELECT (SELECT COUNT(*) FROM cards),
       COUNT(*),
       COUNT(CASE WHEN state = 'fresh' THEN 1 END),
       COUNT(CASE WHEN state = 'spent' THEN 1 END)
FROM tokens`
)

type CardRepository struct {
	db DBTX
}

func NewCardRepository(dbtx DBTX) *CardRepository {
	return &CardRepository{db: dbtx}
}

func (r *CardRepository) Create(ctx context.Context, c *card.Card) error {
	_, err := r.db.ExecContext(ctx, insertCardSQL,
		c.ID(),
		c.Name(),
		c.CompanyName(),
		nullString(c.Phone()),
		c.ViewCount(),
		formatTime(c.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create card", err, kindFromError(err))
	}
	return nil
}

func (r *CardRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, incrementViewCountSQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to increment view count", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return infra.WrapRepoErr("failed to read update result", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("card not found", nil, infra.KindNotFound)
	}
	return nil
}

type CardReadStore struct {
	db DBTX
}

func NewCardReadStore(dbtx DBTX) *CardReadStore {
	return &CardReadStore{db: dbtx}
}

func (r *CardReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.CardView, error) {
	var (
		view      queries.CardView
		phone     sql.NullString
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, getCardSQL, id).
		Scan(&view.ID, &view.Name, &view.CompanyName, &phone, &view.ViewCount, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, infra.WrapRepoErr("card not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get card by id", err)
	}
	view.Phone = stringPtr(phone)
	if view.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, infra.WrapRepoErr("failed to parse created_at", err)
	}
	return &view, nil
}

func (r *CardReadStore) ListFirstPage(ctx context.Context, limit int32) ([]*queries.CardListItem, error) {
	rows, err := r.db.QueryContext(ctx, listCardsFirstPageSQL, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cards first page", err)
	}
	return scanCardListItems(rows)
}

func (r *CardReadStore) ListKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.CardListItem, error) {
	rows, err := r.db.QueryContext(ctx, listCardsKeysetSQL, formatTime(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cards keyset", err)
	}
	return scanCardListItems(rows)
}

func (r *CardReadStore) Stats(ctx context.Context) (*queries.StoreStats, error) {
	var s queries.StoreStats
	err := r.db.QueryRowContext(ctx, storeStatsSQL).Scan(&s.Cards, &s.Tokens, &s.FreshTokens, &s.SpentTokens)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get store stats", err)
	}
	return &s, nil
}

func scanCardListItems(rows *sql.Rows) ([]*queries.CardListItem, error) {
	defer rows.Close()

	items := make([]*queries.CardListItem, 0)
	for rows.Next() {
		var (
			it        queries.CardListItem
			createdAt string
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.CompanyName, &it.ViewCount, &createdAt, &it.TokenCount, &it.SpentCount); err != nil {
			return nil, infra.WrapRepoErr("failed to scan card row", err)
		}
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to parse created_at", err)
		}
		it.CreatedAt = t
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate card rows", err)
	}
	return items, nil
}
