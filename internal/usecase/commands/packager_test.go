//go:build unit

package commands_test

import (
	"fmt"
	"testing"

	"qrcard/internal/domain/issuance"
	"qrcard/internal/usecase/commands"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackager(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		artifacts int
		want      []issuance.Segment
	}{
		{name: "no artifacts no segments", limit: 3, artifacts: 0, want: []issuance.Segment{}},
		{name: "single partial segment", limit: 3, artifacts: 2, want: []issuance.Segment{{Name: "Acme_qr_codes_part_01.zip", Members: 2}}},
		{name: "exact multiple of the cap", limit: 2, artifacts: 4, want: []issuance.Segment{
			{Name: "Acme_qr_codes_part_01.zip", Members: 2},
			{Name: "Acme_qr_codes_part_02.zip", Members: 2},
		}},
		{name: "remainder goes to the last segment", limit: 2, artifacts: 5, want: []issuance.Segment{
			{Name: "Acme_qr_codes_part_01.zip", Members: 2},
			{Name: "Acme_qr_codes_part_02.zip", Members: 2},
			{Name: "Acme_qr_codes_part_03.zip", Members: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemExporter()
			p := commands.NewPackager(tt.limit, "Acme", store)

			for i := range tt.artifacts {
				require.NoError(t, p.Add(fmt.Sprintf("img_%d.png", i), []byte{byte(i)}))
			}
			require.NoError(t, p.Finish())
			require.NoError(t, p.Finish(), "finish is idempotent")

			if diff := cmp.Diff(tt.want, p.Segments()); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}

			total := 0
			for _, seg := range store.segments {
				assert.True(t, seg.finalized, seg.name)
				total += len(seg.members)
			}
			assert.Equal(t, tt.artifacts, total)
		})
	}
}

func TestPackagerSegmentClosesAtCap(t *testing.T) {
	store := newMemExporter()
	p := commands.NewPackager(2, "Acme", store)

	require.NoError(t, p.Add("a.png", nil))
	require.Len(t, store.segments, 1)
	assert.False(t, store.segments[0].finalized)

	require.NoError(t, p.Add("b.png", nil))
	assert.True(t, store.segments[0].finalized, "segment is finalized as soon as it is full")
	assert.Len(t, p.Segments(), 1)

	require.NoError(t, p.Add("c.png", nil))
	require.Len(t, store.segments, 2)
	assert.Equal(t, []string{"c.png"}, store.segments[1].members)
}

func TestPackagerAddFailure(t *testing.T) {
	store := newMemExporter()
	store.failAdd = true
	p := commands.NewPackager(2, "Acme", store)

	assert.Error(t, p.Add("a.png", nil))
}
