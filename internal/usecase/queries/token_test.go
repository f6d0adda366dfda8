//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"qrcard/internal/domain/token"
	"qrcard/internal/infra"
	"qrcard/internal/usecase/queries"
	queriesmock "qrcard/tests/mock/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestNewTokenView(t *testing.T) {
	mintedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	spentAt := mintedAt.Add(time.Hour)
	cardID := uuid.New()
	id := uuid.New()

	t.Run("spent token with extra", func(t *testing.T) {
		tk, err := token.Reconstruct(id, "https://x.test/card?qr=1", &cardID, token.StateSpent, mintedAt, &spentAt, token.Extra{"batch": "a"})
		require.NoError(t, err)

		want := &queries.TokenView{
			ID:          id,
			Payload:     "https://x.test/card?qr=1",
			OwnerCardID: &cardID,
			State:       "spent",
			MintedAt:    mintedAt,
			SpentAt:     &spentAt,
			Extra:       map[string]any{"batch": "a"},
		}
		if diff := cmp.Diff(want, queries.NewTokenView(tk)); diff != "" {
			t.Errorf("view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty extra is omitted", func(t *testing.T) {
		tk, err := token.Reconstruct(id, "p", nil, token.StateFresh, mintedAt, nil, token.Extra{})
		require.NoError(t, err)

		view := queries.NewTokenView(tk)
		assert.Nil(t, view.Extra)
		assert.Nil(t, view.SpentAt)
		assert.Nil(t, view.OwnerCardID)
	})
}

func TestTokenQueries_GetToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockTokenReadStore(ctrl)
	missing := uuid.New()
	store.EXPECT().FindByID(gomock.Any(), missing).
		Return(nil, infra.WrapRepoErr("token not found", pgx.ErrNoRows, infra.KindNotFound))

	_, err := queries.NewTokenQueries(store).GetToken(context.Background(), missing)
	assert.ErrorIs(t, err, queries.ErrTokenNotFound)
}
