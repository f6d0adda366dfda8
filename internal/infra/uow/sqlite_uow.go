package uow

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"qrcard/internal/infra/sqlitestore"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/shared"

	"github.com/google/uuid"
)

type SQLiteUoW struct {
	db *sql.DB
}

func NewSQLiteUoW(db *sql.DB) shared.UnitOfWork {
	return &SQLiteUoW{db: db}
}

// Within runs fn in a BEGIN IMMEDIATE transaction, so writers serialize on the
// database lock and a busy database is retried with backoff.
func (u *SQLiteUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return retry(ctx, sqlitestore.IsBusy, func() error {
		return u.runInTx(ctx, fn)
	})
}

func (u *SQLiteUoW) CommandReads() shared.CommandReads {
	return &sqliteReads{dbtx: u.db}
}

func (u *SQLiteUoW) runInTx(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	sqlTx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	err = fn(ctx, &sqliteTx{dbtx: sqlTx})
	if err == nil {
		if err = sqlTx.Commit(); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	if rollbackErr := sqlTx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
		slog.Warn("rollback failed", "error", rollbackErr.Error())
	}
	return err
}

type sqliteTx struct {
	dbtx sqlitestore.DBTX

	tokenRepo    shared.TokenRepository
	cardRepo     shared.CardRepository
	commandReads shared.CommandReads
}

func (t *sqliteTx) Tokens() shared.TokenRepository {
	if t.tokenRepo == nil {
		t.tokenRepo = sqlitestore.NewTokenRepository(t.dbtx)
	}
	return t.tokenRepo
}

func (t *sqliteTx) Cards() shared.CardRepository {
	if t.cardRepo == nil {
		t.cardRepo = sqlitestore.NewCardRepository(t.dbtx)
	}
	return t.cardRepo
}

func (t *sqliteTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &sqliteReads{dbtx: t.dbtx}
	}
	return t.commandReads
}

type sqliteReads struct {
	dbtx sqlitestore.DBTX
}

func (r *sqliteReads) CardByID(ctx context.Context, id uuid.UUID) (*shared.CardSnapshot, error) {
	c, err := sqlitestore.NewCardReadStore(r.dbtx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.CardSnapshot{
		ID:          c.ID,
		Name:        c.Name,
		CompanyName: c.CompanyName,
		Phone:       c.Phone,
		ViewCount:   c.ViewCount,
		CreatedAt:   c.CreatedAt,
	}, nil
}

func (r *sqliteReads) TokenByID(ctx context.Context, id uuid.UUID) (*shared.TokenSnapshot, error) {
	t, err := sqlitestore.NewTokenReadStore(r.dbtx).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.TokenSnapshot{
		ID:          t.ID,
		OwnerCardID: t.OwnerCardID,
		State:       t.State,
		MintedAt:    t.MintedAt,
		SpentAt:     t.SpentAt,
	}, nil
}
