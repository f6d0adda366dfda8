//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func CreateTestCard(t *testing.T, db DBLike, companyName string) uuid.UUID {
	t.Helper()

	cardID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO cards (id, name, company_name, created_at) VALUES ($1, $2, $3, now())",
		cardID, "Test Holder", companyName)
	require.NoError(t, err)

	return cardID
}

// CreateFreshToken inserts an unspent token; a nil owner makes an orphan.
func CreateFreshToken(t *testing.T, db DBLike, owner *uuid.UUID, payload string) uuid.UUID {
	t.Helper()

	tokenID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO tokens (id, payload, owner_card_id, state, minted_at) VALUES ($1, $2, $3, 'fresh', now())",
		tokenID, strings.ReplaceAll(payload, "{id}", tokenID.String()), owner)
	require.NoError(t, err)

	return tokenID
}

func CountTokens(t *testing.T, db DBLike, cardID uuid.UUID, state string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM tokens WHERE owner_card_id = $1 AND ($2 = '' OR state = $2)",
		cardID, state).Scan(&n)
	require.NoError(t, err)

	return n
}

func ViewCount(t *testing.T, db DBLike, cardID uuid.UUID) int64 {
	t.Helper()

	var n int64
	err := db.QueryRow(context.Background(), "SELECT view_count FROM cards WHERE id = $1", cardID).Scan(&n)
	require.NoError(t, err)

	return n
}

// ResetDB empties every table in the public schema. The schema itself stays.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := pool.Query(ctx,
		"SELECT quote_ident(tablename) FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename")
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	if len(tables) == 0 {
		return nil
	}

	_, err = pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE")
	return err
}
