package commands

import (
	"qrcard/internal/domain/issuance"
	"qrcard/internal/pkg/errs"
)

// Packager streams artifacts into size-capped archive segments. Every
// segment but the last holds exactly limit members.
type Packager struct {
	limit int
	slug  string
	store SegmentStore

	open      SegmentWriter
	openName  string
	openCount int
	segments  []issuance.Segment
}

func NewPackager(limit int, slug string, store SegmentStore) *Packager {
	if limit < 1 {
		limit = 1
	}
	return &Packager{limit: limit, slug: slug, store: store}
}

func (p *Packager) Add(name string, data []byte) error {
	if p.open == nil {
		segName := issuance.SegmentName(p.slug, len(p.segments)+1)
		w, err := p.store.CreateSegment(segName)
		if err != nil {
			return errs.Wrap(err, "create segment "+segName)
		}
		p.open, p.openName, p.openCount = w, segName, 0
	}

	if err := p.open.Add(name, data); err != nil {
		return errs.Wrap(err, "add "+name+" to "+p.openName)
	}
	p.openCount++

	if p.openCount == p.limit {
		return p.finalize()
	}
	return nil
}

// Finish finalizes the open partial segment, if any.
func (p *Packager) Finish() error {
	if p.open == nil {
		return nil
	}
	return p.finalize()
}

func (p *Packager) Segments() []issuance.Segment {
	out := make([]issuance.Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

func (p *Packager) finalize() error {
	w, name, count := p.open, p.openName, p.openCount
	p.open, p.openName, p.openCount = nil, "", 0
	if err := w.Finalize(); err != nil {
		return errs.Wrap(err, "finalize segment "+name)
	}
	p.segments = append(p.segments, issuance.Segment{Name: name, Members: count})
	return nil
}
