package store

import (
	"context"
	"time"

	"github.com/marmos91/sandboxfs/pkg/metrics"
)

// instrumentedStore wraps a FileStore and reports every call to StoreMetrics.
type instrumentedStore struct {
	next    FileStore
	metrics metrics.StoreMetrics
}

// WithMetrics wraps s so that each operation is timed and counted.
//
// If m is nil, s is returned unchanged.
func WithMetrics(s FileStore, m metrics.StoreMetrics) FileStore {
	if m == nil {
		return s
	}
	return &instrumentedStore{next: s, metrics: m}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	s.metrics.RecordOperation(op, time.Since(start), err)
}

func (s *instrumentedStore) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := s.next.List(ctx)
	s.observe("List", start, err)
	if err == nil {
		s.metrics.SetFileCount(len(names))
	}
	return names, err
}

func (s *instrumentedStore) Exists(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := s.next.Exists(ctx, name)
	s.observe("Exists", start, err)
	return ok, err
}

func (s *instrumentedStore) IsRegular(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	ok, err := s.next.IsRegular(ctx, name)
	s.observe("IsRegular", start, err)
	return ok, err
}

func (s *instrumentedStore) Read(ctx context.Context, name string) (string, error) {
	start := time.Now()
	content, err := s.next.Read(ctx, name)
	s.observe("Read", start, err)
	if err == nil {
		s.metrics.RecordBytes("Read", len(content))
	}
	return content, err
}

func (s *instrumentedStore) CreateExclusive(ctx context.Context, name, content string) error {
	start := time.Now()
	err := s.next.CreateExclusive(ctx, name, content)
	s.observe("CreateExclusive", start, err)
	if err == nil {
		s.metrics.RecordBytes("CreateExclusive", len(content))
	}
	return err
}

func (s *instrumentedStore) Overwrite(ctx context.Context, name, content string) error {
	start := time.Now()
	err := s.next.Overwrite(ctx, name, content)
	s.observe("Overwrite", start, err)
	if err == nil {
		s.metrics.RecordBytes("Overwrite", len(content))
	}
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.Delete(ctx, name)
	s.observe("Delete", start, err)
	return err
}

func (s *instrumentedStore) Close() error {
	return s.next.Close()
}
