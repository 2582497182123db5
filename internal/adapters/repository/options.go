package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithTTL sets how long sessions are retained after their last write.
func WithTTL(ttl time.Duration) Option {
	return func(s *MemStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the number of retained sessions. When full, the
// oldest session is evicted to make room.
func WithMaxEntries(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.maxEntries = n
		}
	}
}

// WithSweepInterval sets how often the janitor removes expired sessions.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *MemStore) {
		if interval > 0 {
			s.sweepInterval = interval
		}
	}
}
