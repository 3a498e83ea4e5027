package audit

import (
	"context"
	"sync"
)

// MemoryStore keeps records in memory and is safe for concurrent use.
// Intended for local development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []LogRecord
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Log appends rec.
func (s *MemoryStore) Log(ctx context.Context, rec LogRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of every stored record in write order.
func (s *MemoryStore) Records() []LogRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LogRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
