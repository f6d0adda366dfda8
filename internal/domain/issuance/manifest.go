package issuance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Segment struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

// Manifest correlates a run's archive segments with the tokens it minted.
type Manifest struct {
	RunID    string    `json:"run_id"`
	CardID   uuid.UUID `json:"card_id"`
	Segments []Segment `json:"segments"`
	Images   int       `json:"images"`
	Skipped  int       `json:"skipped"`
}

func (m Manifest) ArchivedMembers() int {
	n := 0
	for _, s := range m.Segments {
		n += s.Members
	}
	return n
}

type Result struct {
	RunID       string
	CardID      uuid.UUID
	Requested   int
	Minted      int
	Rendered    int
	Skipped     int
	Chunks      int
	Manifest    Manifest
	ExportDir   string
	ExportBytes int64
	Elapsed     time.Duration
}

// AverageRate is minted tokens per second over the whole run.
func (r Result) AverageRate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Minted) / r.Elapsed.Seconds()
}

// ImageName is <slug>_qr_<index:06d>_<first 8 chars of the token id>.png; index is 1-based.
func ImageName(slug string, index int, tokenID uuid.UUID) string {
	return fmt.Sprintf("%s_qr_%06d_%s.png", slug, index, tokenID.String()[:8])
}

// SegmentName is <slug>_qr_codes_part_NN.zip; seq is 1-based.
func SegmentName(slug string, seq int) string {
	return fmt.Sprintf("%s_qr_codes_part_%02d.zip", slug, seq)
}
