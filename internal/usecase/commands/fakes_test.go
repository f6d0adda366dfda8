//go:build unit

package commands_test

import (
	"context"
	"sync"

	"qrcard/internal/domain/issuance"
	"qrcard/internal/pkg/errs"
	"qrcard/internal/usecase/commands"
)

// memExporter keeps a run's artifacts in memory.
type memExporter struct {
	mu        sync.Mutex
	begun     []commands.ExportInfo
	images    map[string][]byte
	segments  []*memSegment
	manifest  *issuance.Manifest
	failSave  map[string]bool
	failAdd   bool
	beginErr  error
	sizeBytes int64
}

func newMemExporter() *memExporter {
	return &memExporter{images: map[string][]byte{}, failSave: map[string]bool{}}
}

func (e *memExporter) Begin(_ context.Context, info commands.ExportInfo) (commands.Export, error) {
	if e.beginErr != nil {
		return nil, e.beginErr
	}
	e.begun = append(e.begun, info)
	return e, nil
}

func (e *memExporter) Dir() string { return "mem://" + e.begun[len(e.begun)-1].RunID }

func (e *memExporter) SaveImage(name string, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failSave[name] {
		return errs.New("disk full")
	}
	e.images[name] = data
	e.sizeBytes += int64(len(data))
	return nil
}

func (e *memExporter) CreateSegment(name string) (commands.SegmentWriter, error) {
	seg := &memSegment{name: name, failAdd: e.failAdd}
	e.segments = append(e.segments, seg)
	return seg, nil
}

func (e *memExporter) WriteManifest(m issuance.Manifest) error {
	e.manifest = &m
	return nil
}

func (e *memExporter) Size() (int64, error) { return e.sizeBytes, nil }

type memSegment struct {
	name      string
	members   []string
	finalized bool
	failAdd   bool
}

func (s *memSegment) Add(name string, _ []byte) error {
	if s.failAdd {
		return errs.New("zip write failed")
	}
	s.members = append(s.members, name)
	return nil
}

func (s *memSegment) Finalize() error {
	s.finalized = true
	return nil
}
