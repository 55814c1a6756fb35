package cache

import (
	"context"
	"sync"
	"time"

	"PropertyAssessor/internal/model"
)

// DefaultMaxEntries bounds a MemoryCache created with maxEntries <= 0.
const DefaultMaxEntries = 10000

type memoryEntry struct {
	fields  map[string]string
	stored  time.Time
	expires time.Time // zero: never
}

// MemoryCache keeps encoded analyses in process. Used when Redis is not configured.
// Entries expire after ttl; when full, expired entries go first, then the oldest.
type MemoryCache struct {
	mu         sync.RWMutex
	data       map[string]memoryEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryCache creates a cache. ttl <= 0 disables expiry.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		data:       make(map[string]memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (m *MemoryCache) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

func (m *MemoryCache) Get(_ context.Context, key string) (*model.Analysis, bool) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.expired(e, m.now()) {
		m.mu.Lock()
		if cur, ok := m.data[key]; ok && m.expired(cur, m.now()) {
			delete(m.data, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	a, err := decode(e.fields)
	if err != nil {
		return nil, false
	}
	return a, true
}

func (m *MemoryCache) Set(_ context.Context, key string, a *model.Analysis) error {
	fields := encode(a)
	now := m.now()
	e := memoryEntry{fields: fields, stored: now}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok && len(m.data) >= m.maxEntries {
		m.evict(now)
	}
	m.data[key] = e
	return nil
}

// evict drops expired entries, or the oldest one if none expired. Caller holds mu.
func (m *MemoryCache) evict(now time.Time) {
	var (
		oldestKey string
		oldest    time.Time
		removed   bool
	)
	for k, e := range m.data {
		if m.expired(e, now) {
			delete(m.data, k)
			removed = true
			continue
		}
		if oldestKey == "" || e.stored.Before(oldest) {
			oldestKey, oldest = k, e.stored
		}
	}
	if !removed && oldestKey != "" {
		delete(m.data, oldestKey)
	}
}

// Len reports the number of cached analyses, expired ones included until evicted.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
