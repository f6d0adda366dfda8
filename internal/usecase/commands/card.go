package commands

import (
	"context"

	"qrcard/internal/domain/card"
	"qrcard/internal/pkg/clock"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateCardRequest struct {
	Name        string
	CompanyName string
	Phone       *string
}

type CardCommands interface {
	CreateCard(ctx context.Context, req CreateCardRequest) (uuid.UUID, error)
}

type cardUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCardCommands(uow shared.UnitOfWork, clk clock.Clock) CardCommands {
	return &cardUseCaseImpl{uow: uow, clock: clk}
}

func (uc *cardUseCaseImpl) CreateCard(ctx context.Context, req CreateCardRequest) (uuid.UUID, error) {
	c, err := card.NewCard(req.Name, req.CompanyName, req.Phone, uc.clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrInvalidArgument)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Cards().Create(ctx, c)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return c.ID(), nil
}
