package shared

import (
	"context"
	"time"

	"qrcard/internal/domain/card"
	"qrcard/internal/domain/token"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Tokens() TokenRepository
	Cards() CardRepository
	Reads() CommandReads
}

type CommandReads interface {
	CardByID(ctx context.Context, id uuid.UUID) (*CardSnapshot, error)
	TokenByID(ctx context.Context, id uuid.UUID) (*TokenSnapshot, error)
}

type TokenRepository interface {
	// InsertMany writes all tokens and returns the positions rejected by a
	// uniqueness conflict. Any other failure is returned as an error.
	InsertMany(ctx context.Context, tokens []*token.Token) ([]int, error)
	// MarkSpent flips a fresh token to spent in one conditional statement.
	MarkSpent(ctx context.Context, id uuid.UUID, at time.Time) (MarkSpentResult, error)
}

type CardRepository interface {
	Create(ctx context.Context, c *card.Card) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
}

type MarkSpentResult struct {
	Spent       bool
	OwnerCardID *uuid.UUID
}
