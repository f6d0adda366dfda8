package commands

import (
	"context"
	"log/slog"
	"time"

	"qrcard/internal/infra"
	"qrcard/internal/pkg/clock"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
)

type RedemptionStatus string

const (
	OutcomeGranted     RedemptionStatus = "granted"
	OutcomeAlreadyUsed RedemptionStatus = "already_used"
	OutcomeNotFound    RedemptionStatus = "not_found"
)

type RedemptionOutcome struct {
	Status  RedemptionStatus
	TokenID uuid.UUID
	Card    *shared.CardSnapshot // set only when granted
	SpentAt *time.Time
}

func (o *RedemptionOutcome) Granted() bool {
	return o.Status == OutcomeGranted
}

type RedemptionCommands interface {
	Redeem(ctx context.Context, tokenID uuid.UUID) (*RedemptionOutcome, error)
}

type redemptionUseCaseImpl struct {
	uow     shared.UnitOfWork
	metrics Metrics
	clock   clock.Clock
}

func NewRedemptionCommands(uow shared.UnitOfWork, metrics Metrics, clk clock.Clock) RedemptionCommands {
	return &redemptionUseCaseImpl{uow: uow, metrics: metrics, clock: clk}
}

// Redeem spends a fresh token exactly once. The decision is the store's
// conditional update; the view count of the owning card moves in the same transaction.
func (uc *redemptionUseCaseImpl) Redeem(ctx context.Context, tokenID uuid.UUID) (*RedemptionOutcome, error) {
	now := uc.clock.Now()

	var out RedemptionOutcome
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		out = RedemptionOutcome{TokenID: tokenID}

		res, err := tx.Tokens().MarkSpent(ctx, tokenID, now)
		if err != nil {
			return err
		}
		if !res.Spent {
			return nil
		}

		spentAt := now
		out.SpentAt = &spentAt
		if res.OwnerCardID == nil {
			out.Status = OutcomeNotFound
			return nil
		}

		if err := tx.Cards().IncrementViewCount(ctx, *res.OwnerCardID); err != nil {
			return err
		}
		snap, err := tx.Reads().CardByID(ctx, *res.OwnerCardID)
		if err != nil {
			return err
		}
		out.Status = OutcomeGranted
		out.Card = snap
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(err, "redeem token")
	}

	if out.Status == "" {
		if err := uc.classifyRejected(ctx, &out); err != nil {
			return nil, err
		}
	}

	uc.metrics.ObserveRedemption(string(out.Status))
	slog.Info("redemption decided", "token_id", tokenID.String(), "status", string(out.Status))
	return &out, nil
}

// classifyRejected tells an already spent token from an unknown one after the
// conditional update matched nothing.
func (uc *redemptionUseCaseImpl) classifyRejected(ctx context.Context, out *RedemptionOutcome) error {
	snap, err := uc.uow.CommandReads().TokenByID(ctx, out.TokenID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			out.Status = OutcomeNotFound
			return nil
		}
		return errs.Wrap(err, "classify rejected redemption")
	}
	out.Status = OutcomeAlreadyUsed
	out.SpentAt = snap.SpentAt
	return nil
}
