package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sensorhub-io/argus/internal/domain/model"
	"github.com/sensorhub-io/argus/pkg/metrics"
)

// Default store tuning constants.
const (
	defaultTTL           = time.Hour
	defaultMaxEntries    = 10_000
	defaultSweepInterval = time.Minute
)

// entry is a stored session plus its bookkeeping.
type entry struct {
	session  model.Session
	storedAt time.Time
}

// MemStore is an in-memory, TTL-bounded session store.
type MemStore struct {
	mu      sync.RWMutex
	entries map[string]entry

	ttl           time.Duration
	maxEntries    int
	sweepInterval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates a memory-backed session store and starts its janitor.
func NewMemStore(ctx context.Context, opts ...Option) *MemStore {
	s := &MemStore{
		entries:       make(map[string]entry),
		ttl:           defaultTTL,
		maxEntries:    defaultMaxEntries,
		sweepInterval: defaultSweepInterval,
		stopCh:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.janitor(ctx)

	return s
}

// Put stores or replaces the session for id.
func (s *MemStore) Put(ctx context.Context, id string, session model.Session) error {
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; !exists && len(s.entries) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.entries[id] = entry{session: session, storedAt: time.Now()}

	metrics.RecordSessionStore()
	metrics.UpdateSessionCount(len(s.entries))
	return nil
}

// Get returns the session for id, treating expired entries as absent.
func (s *MemStore) Get(ctx context.Context, id string) (model.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || time.Since(e.storedAt) > s.ttl {
		return model.Session{}, ErrNotFound
	}
	return e.session, nil
}

// Delete removes the session for id, if present.
func (s *MemStore) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.entries, id)
	metrics.UpdateSessionCount(len(s.entries))
	s.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *MemStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.entries {
		if time.Since(e.storedAt) <= s.ttl {
			n++
		}
	}
	return n
}

// Close stops the janitor. Idempotent.
func (s *MemStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	return nil
}

// evictOldestLocked drops the entry with the oldest storedAt.
// Caller must hold the write lock.
func (s *MemStore) evictOldestLocked() {
	var oldestID string
	var oldestAt time.Time
	for id, e := range s.entries {
		if oldestID == "" || e.storedAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.storedAt
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
		metrics.RecordSessionEviction()
	}
}

// janitor periodically removes expired sessions until ctx is cancelled or
// Close is called.
func (s *MemStore) janitor(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.entries {
		if time.Since(e.storedAt) > s.ttl {
			delete(s.entries, id)
			metrics.RecordSessionExpiration()
		}
	}
	metrics.UpdateSessionCount(len(s.entries))
}
