//go:build unit

package pgconv_test

import (
	"database/sql"
	"testing"
	"time"

	"qrcard/internal/pkg/pgconv"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDConversion(t *testing.T) {
	t.Run("nil pointer becomes invalid", func(t *testing.T) {
		pu := pgconv.UUIDPtrToPgtype(nil)
		assert.False(t, pu.Valid)
		assert.Nil(t, pgconv.UUIDPtrFromPgtype(pu))
	})

	t.Run("value survives both directions", func(t *testing.T) {
		id := uuid.New()
		got := pgconv.UUIDPtrFromPgtype(pgconv.UUIDPtrToPgtype(&id))
		require.NotNil(t, got)
		assert.Equal(t, id, *got)
	})
}

func TestTimePtrFromPgtype(t *testing.T) {
	assert.Nil(t, pgconv.TimePtrFromPgtype(pgtype.Timestamptz{}))

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	got := pgconv.TimePtrFromPgtype(pgconv.TimeToPgtype(now))
	require.NotNil(t, got)
	assert.True(t, now.Equal(*got))

	tokyo := time.FixedZone("JST", 9*60*60)
	local := time.Date(2025, 1, 2, 12, 4, 5, 0, tokyo)
	got = pgconv.TimePtrFromPgtype(pgconv.TimeToPgtype(local))
	require.NotNil(t, got)
	assert.Equal(t, time.UTC, got.Location())
	assert.True(t, local.Equal(*got))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, pgconv.IsNoRows(pgx.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(sql.ErrNoRows))
	assert.True(t, pgconv.IsNoRows(errors.Wrap(pgx.ErrNoRows, "find token")))
	assert.False(t, pgconv.IsNoRows(errors.New("boom")))
}
