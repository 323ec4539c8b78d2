package rate

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMemoryStoreSize caps the number of tracked keys in a [MemoryStore].
const DefaultMemoryStoreSize = 100_000

type window struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore keeps counters in a bounded, expiring LRU local to the process.
//
// The LRU TTL only evicts idle keys; window boundaries are tracked per entry
// so repeated hits do not extend a window.
type MemoryStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, window]
	now   func() time.Time
}

// NewMemoryStore returns a store tracking at most size keys, each kept for at
// least maxWindow after its last hit.
func NewMemoryStore(size int, maxWindow time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultMemoryStoreSize
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, window](size, nil, maxWindow),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.cache.Get(key)
	if !ok || !s.now().Before(w.expiresAt) {
		return 0, nil
	}
	return w.count, nil
}

func (s *MemoryStore) Incr(_ context.Context, key string, length time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.cache.Get(key)
	if !ok || !now.Before(w.expiresAt) {
		w = window{expiresAt: now.Add(length)}
	}
	w.count++
	s.cache.Add(key, w)
	return w.count, nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		s.cache.Remove(key)
	}
	return nil
}
