package token

import (
	"time"

	"github.com/google/uuid"
)

// Token is a single-use credential. A token is spent exactly when spentAt is set.
type Token struct {
	id          uuid.UUID
	payload     string
	ownerCardID *uuid.UUID
	state       State
	mintedAt    time.Time
	spentAt     *time.Time
	extra       Extra
}

func Mint(id uuid.UUID, payload string, ownerCardID *uuid.UUID, mintedAt time.Time, extra Extra) (*Token, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}
	return &Token{
		id:          id,
		payload:     payload,
		ownerCardID: ownerCardID,
		state:       StateFresh,
		mintedAt:    mintedAt,
		extra:       extra,
	}, nil
}

func Reconstruct(id uuid.UUID, payload string, ownerCardID *uuid.UUID, state State, mintedAt time.Time, spentAt *time.Time, extra Extra) (*Token, error) {
	if !state.IsValid() {
		return nil, ErrInvalidState
	}
	if (state == StateSpent) != (spentAt != nil) {
		return nil, ErrStateInconsistent
	}
	return &Token{
		id:          id,
		payload:     payload,
		ownerCardID: ownerCardID,
		state:       state,
		mintedAt:    mintedAt,
		spentAt:     spentAt,
		extra:       extra,
	}, nil
}

func (t *Token) ID() uuid.UUID           { return t.id }
func (t *Token) Payload() string         { return t.payload }
func (t *Token) OwnerCardID() *uuid.UUID { return t.ownerCardID }
func (t *Token) State() State            { return t.state }
func (t *Token) MintedAt() time.Time     { return t.mintedAt }
func (t *Token) SpentAt() *time.Time     { return t.spentAt }
func (t *Token) Extra() Extra            { return t.extra }

// Reissue returns a copy carrying a new id and payload. Used when the store
// rejects an id as already taken.
func (t *Token) Reissue(id uuid.UUID, payload string) *Token {
	cp := *t
	cp.id = id
	cp.payload = payload
	return &cp
}
