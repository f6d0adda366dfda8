//go:build unit

package token_test

import (
	"testing"
	"time"

	"qrcard/internal/domain/token"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMint(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	cardID := uuid.New()
	id := uuid.New()
	extra := token.Extra{"campaign": "spring", "batch": float64(3)}

	tk, err := token.Mint(id, "https://x.test/card/"+cardID.String()+"?qr="+id.String(), &cardID, now, extra)
	require.NoError(t, err)

	assert.Equal(t, id, tk.ID())
	assert.Equal(t, token.StateFresh, tk.State())
	assert.Nil(t, tk.SpentAt())
	assert.Equal(t, &cardID, tk.OwnerCardID())
	assert.Equal(t, now, tk.MintedAt())
	if diff := cmp.Diff(extra, tk.Extra()); diff != "" {
		t.Errorf("extra mismatch (-want +got):\n%s", diff)
	}

	_, err = token.Mint(id, "", nil, now, nil)
	assert.ErrorIs(t, err, token.ErrEmptyPayload)
}

func TestReconstruct(t *testing.T) {
	now := time.Now()
	id := uuid.New()

	tests := []struct {
		name    string
		state   token.State
		spentAt *time.Time
		errIs   error
	}{
		{name: "fresh without spent_at", state: token.StateFresh},
		{name: "spent with spent_at", state: token.StateSpent, spentAt: &now},
		{name: "spent without spent_at", state: token.StateSpent, errIs: token.ErrStateInconsistent},
		{name: "fresh with spent_at", state: token.StateFresh, spentAt: &now, errIs: token.ErrStateInconsistent},
		{name: "unknown state", state: token.State("burned"), errIs: token.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk, err := token.Reconstruct(id, "p", nil, tt.state, now, tt.spentAt, nil)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.state, tk.State())
			assert.Equal(t, tt.spentAt, tk.SpentAt())
		})
	}
}

func TestReissue(t *testing.T) {
	cardID := uuid.New()
	orig, err := token.Mint(uuid.New(), "old", &cardID, time.Now(), token.Extra{"k": "v"})
	require.NoError(t, err)

	newID := uuid.New()
	re := orig.Reissue(newID, "new")

	assert.Equal(t, newID, re.ID())
	assert.Equal(t, "new", re.Payload())
	assert.Equal(t, orig.OwnerCardID(), re.OwnerCardID())
	assert.Equal(t, "old", orig.Payload(), "original must stay untouched")
}

func TestPayloadBuilder(t *testing.T) {
	tokenID := uuid.MustParse("6f1c1a4e-8a53-4d0c-9d1b-2a7f5f0e9c11")
	cardID := uuid.MustParse("0b7e3c52-41a6-4e55-8f0e-4d1b6a3c2f90")

	t.Run("owned token", func(t *testing.T) {
		b, err := token.NewPayloadBuilder("https://cards.example.com/")
		require.NoError(t, err)
		assert.Equal(t,
			"https://cards.example.com/card/0b7e3c52-41a6-4e55-8f0e-4d1b6a3c2f90?qr=6f1c1a4e-8a53-4d0c-9d1b-2a7f5f0e9c11",
			b.Build(&cardID, tokenID))
	})

	t.Run("orphan token", func(t *testing.T) {
		b, err := token.NewPayloadBuilder("http://localhost:8080")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/scan?qr=6f1c1a4e-8a53-4d0c-9d1b-2a7f5f0e9c11", b.Build(nil, tokenID))
	})

	t.Run("invalid base url", func(t *testing.T) {
		for _, in := range []string{"", "cards.example.com", "ftp://cards.example.com"} {
			_, err := token.NewPayloadBuilder(in)
			assert.ErrorIs(t, err, token.ErrInvalidBaseURL, in)
		}
	})
}
