package utils

import (
	"context"
	"sync"
	"time"
)

// cacheEntry represents a cached item with expiration
type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryCache implements Cache using in-process storage. It is the fallback
// used when Redis is unavailable.
type MemoryCache struct {
	mu      sync.Mutex
	data    map[string]cacheEntry
	maxSize int
}

// NewMemoryCache creates a new memory cache instance and starts its
// background cleaner.
func NewMemoryCache(maxSize int, cleanInterval time.Duration) *MemoryCache {
	mc := &MemoryCache{
		data:    make(map[string]cacheEntry),
		maxSize: maxSize,
	}

	go mc.startCleaner(cleanInterval)

	return mc
}

// Get retrieves a value from the memory cache
func (mc *MemoryCache) Get(ctx context.Context, key string) (CacheResult, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.data[key]
	if !ok {
		return CacheResult{Found: false}, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(mc.data, key)
		return CacheResult{Found: false}, nil
	}

	return CacheResult{Data: entry.value, Found: true}, nil
}

// Set stores a value in the memory cache. When the cache is full it first
// drops expired entries; if it is still full the value is not cached.
func (mc *MemoryCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.data[key]; !exists && len(mc.data) >= mc.maxSize {
		mc.cleanExpiredLocked()
		if len(mc.data) >= mc.maxSize {
			return nil
		}
	}

	mc.data[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(expiration),
	}
	return nil
}

// IsHealthy always returns true for the memory cache
func (mc *MemoryCache) IsHealthy() bool {
	return true
}

// startCleaner runs a periodic cleanup of expired entries
func (mc *MemoryCache) startCleaner(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		mc.mu.Lock()
		mc.cleanExpiredLocked()
		mc.mu.Unlock()
	}
}

func (mc *MemoryCache) cleanExpiredLocked() {
	now := time.Now()
	for key, entry := range mc.data {
		if now.After(entry.expiresAt) {
			delete(mc.data, key)
		}
	}
}
