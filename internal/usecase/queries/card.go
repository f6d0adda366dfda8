package queries

import (
	"context"
	"time"

	"qrcard/internal/infra"
	"qrcard/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrCardNotFound  = errs.Mark(errs.New("card not found"), errs.ErrNotFound)
	ErrInvalidCursor = errs.Mark(errs.New("invalid cursor"), errs.ErrInvalidArgument)
)

type CardReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CardView, error)
	ListFirstPage(ctx context.Context, limit int32) ([]*CardListItem, error)
	ListKeyset(ctx context.Context, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*CardListItem, error)
	Stats(ctx context.Context) (*StoreStats, error)
}

type CardQueries interface {
	GetCard(ctx context.Context, id uuid.UUID) (*CardView, error)
	ListCards(ctx context.Context, cursor *Cursor, limit int) ([]*CardListItem, *Cursor, error)
	Stats(ctx context.Context) (*StoreStats, error)
}

type cardQueriesImpl struct {
	store CardReadStore
}

func NewCardQueries(store CardReadStore) CardQueries {
	return &cardQueriesImpl{store: store}
}

func (q *cardQueriesImpl) GetCard(ctx context.Context, id uuid.UUID) (*CardView, error) {
	c, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCards pages cards newest first. One extra row is fetched to decide
// whether a next cursor exists.
func (q *cardQueriesImpl) ListCards(ctx context.Context, cursor *Cursor, limit int) ([]*CardListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var rows []*CardListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.ListFirstPage(ctx, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, errs.Wrap(ErrInvalidCursor, derr.Error())
		}
		rows, err = q.store.ListKeyset(ctx, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (q *cardQueriesImpl) Stats(ctx context.Context) (*StoreStats, error) {
	return q.store.Stats(ctx)
}
