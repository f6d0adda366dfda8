package response

import (
	"qrcard/internal/domain/issuance"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

type SegmentResponse struct {
	Name    string `json:"name"`
	Members int    `json:"members"`
}

type IssuanceResponse struct {
	RunID          string            `json:"run_id"`
	CardID         uuid.UUID         `json:"card_id"`
	Requested      int               `json:"requested"`
	Minted         int               `json:"minted"`
	Rendered       int               `json:"rendered"`
	Skipped        int               `json:"skipped"`
	Chunks         int               `json:"chunks"`
	Segments       []SegmentResponse `json:"segments"`
	ExportDir      string            `json:"export_dir,omitempty"`
	ExportBytes    int64             `json:"export_bytes"`
	ExportSize     string            `json:"export_size,omitempty"`
	ElapsedSeconds float64           `json:"elapsed_seconds"`
	AverageRate    float64           `json:"average_rate"`
}

func FromIssuanceResult(r *issuance.Result) *IssuanceResponse {
	res := &IssuanceResponse{
		RunID:          r.RunID,
		CardID:         r.CardID,
		Requested:      r.Requested,
		Minted:         r.Minted,
		Rendered:       r.Rendered,
		Skipped:        r.Skipped,
		Chunks:         r.Chunks,
		Segments:       make([]SegmentResponse, 0, len(r.Manifest.Segments)),
		ExportDir:      r.ExportDir,
		ExportBytes:    r.ExportBytes,
		ElapsedSeconds: r.Elapsed.Seconds(),
		AverageRate:    r.AverageRate(),
	}
	for _, s := range r.Manifest.Segments {
		res.Segments = append(res.Segments, SegmentResponse{Name: s.Name, Members: s.Members})
	}
	if r.ExportBytes > 0 {
		res.ExportSize = humanize.Bytes(uint64(r.ExportBytes))
	}
	return res
}
