package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryCache implements Cache in process memory. Used in tests and in
// deployments without Redis.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]memoryItem
	done chan struct{}
}

type memoryItem struct {
	value      []byte
	expiration time.Time
}

// NewMemoryCache creates an in-memory cache with background expiry.
func NewMemoryCache() *MemoryCache {
	mc := &MemoryCache{
		data: make(map[string]memoryItem),
		done: make(chan struct{}),
	}
	go mc.cleanup()
	return mc
}

// Get retrieves a value.
func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.data[key]
	if !ok || time.Now().After(item.expiration) {
		return nil, ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value with a TTL.
func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = memoryItem{value: value, expiration: time.Now().Add(ttl)}
	return nil
}

// Delete removes a key.
func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Exists checks whether a key is present and unexpired.
func (m *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.data[key]
	return ok && !time.Now().After(item.expiration), nil
}

// Clear removes all keys matching pattern. Only a trailing * wildcard is
// supported.
func (m *MemoryCache) Clear(ctx context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.data {
		if matchPattern(key, pattern) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *MemoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			now := time.Now()
			for key, item := range m.data {
				if now.After(item.expiration) {
					delete(m.data, key)
				}
			}
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// Close stops the expiry goroutine.
func (m *MemoryCache) Close() error {
	close(m.done)
	return nil
}

func matchPattern(s, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(s, strings.TrimSuffix(pattern, "*"))
	}
	return s == pattern
}
