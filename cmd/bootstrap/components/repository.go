package components

import (
	"database/sql"

	"qrcard/internal/infra/readstore"
	"qrcard/internal/infra/sqlitestore"
	"qrcard/internal/infra/uow"
	"qrcard/internal/usecase/queries"
	"qrcard/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Store holds the connection of the selected backend; exactly one handle is set.
type Store struct {
	Driver   string
	Postgres *pgxpool.Pool
	SQLite   *sql.DB
}

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewUnitOfWork,
		// Read-side stores for queries
		NewCardReadStore,
		NewTokenReadStore,
	),
)

func NewUnitOfWork(s *Store) shared.UnitOfWork {
	if s.SQLite != nil {
		return uow.NewSQLiteUoW(s.SQLite)
	}
	return uow.NewPostgresUoW(s.Postgres)
}

func NewCardReadStore(s *Store) queries.CardReadStore {
	if s.SQLite != nil {
		return sqlitestore.NewCardReadStore(s.SQLite)
	}
	return readstore.NewCardReadStore(s.Postgres)
}

func NewTokenReadStore(s *Store) queries.TokenReadStore {
	if s.SQLite != nil {
		return sqlitestore.NewTokenReadStore(s.SQLite)
	}
	return readstore.NewTokenReadStore(s.Postgres)
}
