package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ignatzorin/activity-favorites/internal/goroutine"
)

const (
	citiesCacheKey   = "activities:cities"
	latestCacheKey   = "activities:latest"
	activityCacheTTL = time.Minute
	cacheCleanupTick = 5 * time.Minute
)

// Cache хранит значения в памяти с TTL и инвалидацией по префиксу.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	data      interface{}
	expiresAt time.Time
}

// NewCache создаёт кэш. Просроченные записи вычищаются, пока жив ctx.
func NewCache(ctx context.Context) *Cache {
	c := &Cache{
		items: make(map[string]*cacheEntry),
		now:   time.Now,
	}
	goroutine.SafeGoWithContext(ctx, c.cleanup)
	return c
}

// Get возвращает значение, если оно есть и не просрочено.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.items[key]
	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.data, true
}

// Set сохраняет значение на ttl.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheEntry{data: value, expiresAt: c.now().Add(ttl)}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// InvalidateByPrefix удаляет все ключи с указанным префиксом.
func (c *Cache) InvalidateByPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

// GetOrSet возвращает значение из кэша или вычисляет и сохраняет его.
func (c *Cache) GetOrSet(key string, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := fn()
	if err != nil {
		return nil, err
	}
	c.Set(key, value, ttl)
	return value, nil
}

func (c *Cache) purgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
		}
	}
}

func (c *Cache) cleanup(ctx context.Context) {
	ticker := time.NewTicker(cacheCleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.purgeExpired()
		}
	}
}
