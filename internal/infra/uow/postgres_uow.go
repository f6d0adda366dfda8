package uow

import (
	"context"
	"errors"
	"log/slog"

	"qrcard/internal/infra/db"
	"qrcard/internal/infra/readstore"
	"qrcard/internal/infra/repository"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// ReadCommitted is enough: every decision is a single conditional statement.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return retry(ctx, isRetryablePgError, func() error {
		return u.runInTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
	})
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{dbtx: u.pool}
}

func (u *PostgresUoW) runInTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &pgTx{dbtx: pgxTx})
	if err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", rollbackErr.Error())
	}
	return err
}

func isRetryablePgError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	// Lazy-initialized repositories
	tokenRepo    shared.TokenRepository
	cardRepo     shared.CardRepository
	commandReads shared.CommandReads
}

func (t *pgTx) Tokens() shared.TokenRepository {
	if t.tokenRepo == nil {
		t.tokenRepo = repository.NewTokenRepository(t.dbtx)
	}
	return t.tokenRepo
}

func (t *pgTx) Cards() shared.CardRepository {
	if t.cardRepo == nil {
		t.cardRepo = repository.NewCardRepository(t.dbtx)
	}
	return t.cardRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	dbtx db.DBTX

	// Lazy-initialized readstores
	cardStore  *readstore.CardReadStore
	tokenStore *readstore.TokenReadStore
}

func (r *commandReads) CardByID(ctx context.Context, id uuid.UUID) (*shared.CardSnapshot, error) {
	if r.cardStore == nil {
		r.cardStore = readstore.NewCardReadStore(r.dbtx)
	}

	c, err := r.cardStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.CardSnapshot{
		ID:          c.ID,
		Name:        c.Name,
		CompanyName: c.CompanyName,
		Phone:       c.Phone,
		ViewCount:   c.ViewCount,
		CreatedAt:   c.CreatedAt,
	}
	return snapshot, nil
}

func (r *commandReads) TokenByID(ctx context.Context, id uuid.UUID) (*shared.TokenSnapshot, error) {
	if r.tokenStore == nil {
		r.tokenStore = readstore.NewTokenReadStore(r.dbtx)
	}

	t, err := r.tokenStore.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := &shared.TokenSnapshot{
		ID:          t.ID,
		OwnerCardID: t.OwnerCardID,
		State:       t.State,
		MintedAt:    t.MintedAt,
		SpentAt:     t.SpentAt,
	}
	return snapshot, nil
}
