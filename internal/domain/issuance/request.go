package issuance

import (
	"fmt"

	"qrcard/internal/domain/token"
	"qrcard/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity    = errs.Mark(errs.New("quantity out of range"), errs.ErrInvalidArgument)
	ErrInvalidChunkSize   = errs.Mark(errs.New("chunk size out of range"), errs.ErrInvalidArgument)
	ErrArchivesNeedImages = errs.Mark(errs.New("archives require rendered images"), errs.ErrInvalidArgument)
	ErrInvalidPolicy      = errs.New("invalid issuance policy")
)

// Policy bounds a single issuance run. DefaultChunkSize is applied by the
// callers that accept an optional chunk size; Issue itself requires one.
type Policy struct {
	MaxQuantity      int
	MaxChunkSize     int
	DefaultChunkSize int
	ArchiveCap       int
	CollisionRetries int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxQuantity:      200_000,
		MaxChunkSize:     10_000,
		DefaultChunkSize: 1_000,
		ArchiveCap:       50_000,
		CollisionRetries: 3,
	}
}

type Request struct {
	CardID        uuid.UUID
	Quantity      int
	ChunkSize     int
	RenderImages  bool
	BuildArchives bool
	Extra         token.Extra
}

// Validate requires every limit to be at least 1 and the retry count to be
// non-negative.
func (p Policy) Validate() error {
	switch {
	case p.MaxQuantity < 1:
		return errs.Wrap(ErrInvalidPolicy, fmt.Sprintf("max quantity %d < 1", p.MaxQuantity))
	case p.MaxChunkSize < 1:
		return errs.Wrap(ErrInvalidPolicy, fmt.Sprintf("max chunk size %d < 1", p.MaxChunkSize))
	case p.DefaultChunkSize < 1 || p.DefaultChunkSize > p.MaxChunkSize:
		return errs.Wrap(ErrInvalidPolicy, fmt.Sprintf("default chunk size %d outside 1..%d", p.DefaultChunkSize, p.MaxChunkSize))
	case p.ArchiveCap < 1:
		return errs.Wrap(ErrInvalidPolicy, fmt.Sprintf("archive cap %d < 1", p.ArchiveCap))
	case p.CollisionRetries < 0:
		return errs.Wrap(ErrInvalidPolicy, fmt.Sprintf("collision retries %d < 0", p.CollisionRetries))
	}
	return nil
}

func (r Request) Validate(p Policy) error {
	if r.Quantity < 1 || r.Quantity > p.MaxQuantity {
		return errs.Wrap(ErrInvalidQuantity, "validate request")
	}
	if r.ChunkSize < 1 || r.ChunkSize > p.MaxChunkSize {
		return errs.Wrap(ErrInvalidChunkSize, "validate request")
	}
	if r.BuildArchives && !r.RenderImages {
		return errs.Wrap(ErrArchivesNeedImages, "validate request")
	}
	return nil
}

// ChunkCount is the number of store writes a run of this size needs.
func (r Request) ChunkCount() int {
	if r.ChunkSize <= 0 {
		return 0
	}
	return (r.Quantity + r.ChunkSize - 1) / r.ChunkSize
}
