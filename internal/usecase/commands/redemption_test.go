//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"qrcard/internal/infra"
	"qrcard/internal/pkg/clock"
	"qrcard/internal/usecase/commands"
	"qrcard/internal/usecase/shared"
	commandsmock "qrcard/tests/mock/commands"
	sharedmock "qrcard/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type redemptionFixture struct {
	uow     *sharedmock.MockUnitOfWork
	tx      *sharedmock.MockTx
	reads   *sharedmock.MockCommandReads
	tokens  *sharedmock.MockTokenRepository
	cards   *sharedmock.MockCardRepository
	metrics *commandsmock.MockMetrics
	now     time.Time
	uc      commands.RedemptionCommands
}

func newRedemptionFixture(t *testing.T) *redemptionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &redemptionFixture{
		uow:     sharedmock.NewMockUnitOfWork(ctrl),
		tx:      sharedmock.NewMockTx(ctrl),
		reads:   sharedmock.NewMockCommandReads(ctrl),
		tokens:  sharedmock.NewMockTokenRepository(ctrl),
		cards:   sharedmock.NewMockCardRepository(ctrl),
		metrics: commandsmock.NewMockMetrics(ctrl),
		now:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.uow.EXPECT().Within(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, f.tx)
		}).AnyTimes()
	f.uow.EXPECT().CommandReads().Return(f.reads).AnyTimes()
	f.tx.EXPECT().Tokens().Return(f.tokens).AnyTimes()
	f.tx.EXPECT().Cards().Return(f.cards).AnyTimes()
	f.tx.EXPECT().Reads().Return(f.reads).AnyTimes()

	f.uc = commands.NewRedemptionCommands(f.uow, f.metrics, clock.NewMockClock(f.now))
	return f
}

func TestRedeem_Granted(t *testing.T) {
	f := newRedemptionFixture(t)
	tokenID, cardID := uuid.New(), uuid.New()
	snap := &shared.CardSnapshot{ID: cardID, Name: "Jane Doe", CompanyName: "Acme Corp", ViewCount: 1}

	gomock.InOrder(
		f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).
			Return(shared.MarkSpentResult{Spent: true, OwnerCardID: &cardID}, nil),
		f.cards.EXPECT().IncrementViewCount(gomock.Any(), cardID).Return(nil),
		f.reads.EXPECT().CardByID(gomock.Any(), cardID).Return(snap, nil),
	)
	f.metrics.EXPECT().ObserveRedemption(string(commands.OutcomeGranted))

	out, err := f.uc.Redeem(context.Background(), tokenID)
	require.NoError(t, err)
	assert.True(t, out.Granted())
	assert.Equal(t, tokenID, out.TokenID)
	assert.Equal(t, snap, out.Card)
	require.NotNil(t, out.SpentAt)
	assert.Equal(t, f.now, *out.SpentAt)
}

func TestRedeem_AlreadyUsed(t *testing.T) {
	f := newRedemptionFixture(t)
	tokenID, cardID := uuid.New(), uuid.New()
	spentAt := f.now.Add(-time.Hour)

	f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).Return(shared.MarkSpentResult{}, nil)
	f.reads.EXPECT().TokenByID(gomock.Any(), tokenID).Return(&shared.TokenSnapshot{
		ID:          tokenID,
		OwnerCardID: &cardID,
		State:       "spent",
		SpentAt:     &spentAt,
	}, nil)
	f.cards.EXPECT().IncrementViewCount(gomock.Any(), gomock.Any()).Times(0)
	f.metrics.EXPECT().ObserveRedemption(string(commands.OutcomeAlreadyUsed))

	out, err := f.uc.Redeem(context.Background(), tokenID)
	require.NoError(t, err)
	assert.False(t, out.Granted())
	assert.Equal(t, commands.OutcomeAlreadyUsed, out.Status)
	assert.Nil(t, out.Card)
	assert.Equal(t, &spentAt, out.SpentAt)
}

func TestRedeem_NotFound(t *testing.T) {
	f := newRedemptionFixture(t)
	tokenID := uuid.New()

	f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).Return(shared.MarkSpentResult{}, nil)
	f.reads.EXPECT().TokenByID(gomock.Any(), tokenID).
		Return(nil, infra.WrapRepoErr("token not found", pgx.ErrNoRows, infra.KindNotFound))
	f.metrics.EXPECT().ObserveRedemption(string(commands.OutcomeNotFound))

	out, err := f.uc.Redeem(context.Background(), tokenID)
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeNotFound, out.Status)
	assert.Nil(t, out.Card)
	assert.Nil(t, out.SpentAt)
}

func TestRedeem_OrphanTokenIsSpentButNotGranted(t *testing.T) {
	f := newRedemptionFixture(t)
	tokenID := uuid.New()

	f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).Return(shared.MarkSpentResult{Spent: true}, nil)
	f.cards.EXPECT().IncrementViewCount(gomock.Any(), gomock.Any()).Times(0)
	f.metrics.EXPECT().ObserveRedemption(string(commands.OutcomeNotFound))

	out, err := f.uc.Redeem(context.Background(), tokenID)
	require.NoError(t, err)
	assert.Equal(t, commands.OutcomeNotFound, out.Status)
	require.NotNil(t, out.SpentAt)
}

func TestRedeem_StoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *redemptionFixture, tokenID, cardID uuid.UUID)
	}{
		{
			name: "conditional update fails",
			setup: func(f *redemptionFixture, tokenID, _ uuid.UUID) {
				f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).
					Return(shared.MarkSpentResult{}, infra.WrapRepoErr("failed to mark token spent", errors.New("conn closed")))
			},
		},
		{
			name: "view count update fails",
			setup: func(f *redemptionFixture, tokenID, cardID uuid.UUID) {
				f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).
					Return(shared.MarkSpentResult{Spent: true, OwnerCardID: &cardID}, nil)
				f.cards.EXPECT().IncrementViewCount(gomock.Any(), cardID).
					Return(infra.WrapRepoErr("failed to increment view count", errors.New("conn closed")))
			},
		},
		{
			name: "classification read fails",
			setup: func(f *redemptionFixture, tokenID, _ uuid.UUID) {
				f.tokens.EXPECT().MarkSpent(gomock.Any(), tokenID, f.now).Return(shared.MarkSpentResult{}, nil)
				f.reads.EXPECT().TokenByID(gomock.Any(), tokenID).
					Return(nil, infra.WrapRepoErr("failed to get token", errors.New("conn closed")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRedemptionFixture(t)
			tokenID, cardID := uuid.New(), uuid.New()
			tt.setup(f, tokenID, cardID)
			f.metrics.EXPECT().ObserveRedemption(gomock.Any()).Times(0)

			out, err := f.uc.Redeem(context.Background(), tokenID)
			require.Error(t, err)
			assert.True(t, infra.IsKind(err, infra.KindDBFailure))
			assert.Nil(t, out)
		})
	}
}
