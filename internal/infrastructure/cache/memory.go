package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bilmo/backend/internal/domain"
)

// cacheItem represents a single cached result list with expiration
type cacheItem struct {
	Records    []domain.ProductRecord
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory result cache with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached result list
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.ProductRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Check if expired
	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	// Copy on the way out too, so callers cannot mutate the entry
	records := make([]domain.ProductRecord, len(item.Records))
	copy(records, item.Records)
	return records, nil
}

// Set stores a result list in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, records []domain.ProductRecord, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Copy so later mutation by the caller cannot corrupt the entry
	stored := make([]domain.ProductRecord, len(records))
	copy(stored, records)

	c.data[key] = cacheItem{
		Records:    stored,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a result list from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
