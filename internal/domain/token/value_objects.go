package token

import (
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidState      = errors.New("invalid token state")
	ErrStateInconsistent = errors.New("token state and spent_at disagree")
	ErrInvalidBaseURL    = errors.New("base url must be an absolute http(s) url")
	ErrEmptyPayload      = errors.New("payload must not be empty")
)

type State string

const (
	StateFresh State = "fresh"
	StateSpent State = "spent"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StateFresh, StateSpent:
		return true
	default:
		return false
	}
}

func NewState(s string) (State, error) {
	st := State(s)
	if !st.IsValid() {
		return "", ErrInvalidState
	}
	return st, nil
}

// Extra is caller-supplied metadata stored verbatim and never interpreted.
type Extra map[string]any

// PayloadBuilder renders the redemption URL encoded into a token's artifact.
type PayloadBuilder struct {
	baseURL string
}

func NewPayloadBuilder(baseURL string) (PayloadBuilder, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return PayloadBuilder{}, ErrInvalidBaseURL
	}
	return PayloadBuilder{baseURL: trimmed}, nil
}

// Build returns <base>/card/<card_id>?qr=<token_id>, or <base>/scan?qr=<token_id>
// for tokens without an owner.
func (b PayloadBuilder) Build(cardID *uuid.UUID, tokenID uuid.UUID) string {
	if cardID == nil {
		return b.baseURL + "/scan?qr=" + tokenID.String()
	}
	return b.baseURL + "/card/" + cardID.String() + "?qr=" + tokenID.String()
}

func (b PayloadBuilder) BaseURL() string {
	return b.baseURL
}
