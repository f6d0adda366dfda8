package queries

import (
	"context"

	"qrcard/internal/infra"
	"qrcard/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrTokenNotFound = errs.Mark(errs.New("token not found"), errs.ErrNotFound)

type TokenReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TokenView, error)
}

// TokenQueries inspects tokens for operators. Reads never change token state.
type TokenQueries interface {
	GetToken(ctx context.Context, id uuid.UUID) (*TokenView, error)
}

type tokenQueriesImpl struct {
	store TokenReadStore
}

func NewTokenQueries(store TokenReadStore) TokenQueries {
	return &tokenQueriesImpl{store: store}
}

func (q *tokenQueriesImpl) GetToken(ctx context.Context, id uuid.UUID) (*TokenView, error) {
	t, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return t, nil
}
