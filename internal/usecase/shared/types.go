package shared

import (
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command read operations
type CardSnapshot struct {
	ID          uuid.UUID
	Name        string
	CompanyName string
	Phone       *string
	ViewCount   int64
	CreatedAt   time.Time
}

type TokenSnapshot struct {
	ID          uuid.UUID
	OwnerCardID *uuid.UUID
	State       string
	MintedAt    time.Time
	SpentAt     *time.Time
}
