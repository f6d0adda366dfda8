// Package pgconv maps nullable Go values onto pgx's pgtype wrappers and back.
// Timestamps always cross the boundary in UTC.
package pgconv

import (
	"database/sql"
	"time"

	"qrcard/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

func UUIDPtrToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func UUIDPtrFromPgtype(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

func StringPtrToPgtype(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func StringPtrFromPgtype(v pgtype.Text) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func TimeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

func TimePtrFromPgtype(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}

// IsNoRows matches the empty-result error of both pgx and database/sql, so
// the Postgres and SQLite stores can share not-found handling.
func IsNoRows(err error) bool {
	return errs.Is(err, pgx.ErrNoRows) || errs.Is(err, sql.ErrNoRows)
}
