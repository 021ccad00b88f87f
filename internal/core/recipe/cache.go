package recipe

import (
	"strconv"
	"sync"
	"time"

	"pantry-keeper/internal/infrastructure/config"
	"pantry-keeper/internal/pkg/common"

	"go.uber.org/zap"
)

// DetailCache keeps fetched detail payloads in memory, keyed by recipe id.
// A nil cache is valid and caches nothing.
type DetailCache struct {
	cfg   config.CacheConfig
	mu    sync.RWMutex
	store map[int]detailEntry
	stats cacheStats
	done  chan struct{}
}

type detailEntry struct {
	detail      *Detail
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewDetailCache creates the cache and starts its cleanup loop. Returns nil
// when caching is disabled.
func NewDetailCache(cfg *config.CacheConfig) *DetailCache {
	if !cfg.Enabled {
		common.LogInfo("recipe detail cache disabled")
		return nil
	}

	c := &DetailCache{
		cfg:   *cfg,
		store: make(map[int]detailEntry),
		done:  make(chan struct{}),
	}
	go c.cleanupLoop()

	common.LogInfo("recipe detail cache initialized",
		zap.Int("max_size", cfg.MaxSize),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)
	return c
}

// Get returns the cached detail for a recipe, or nil on a miss.
func (c *DetailCache) Get(recipeID int) *Detail {
	if c == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.store[recipeID]
	if !ok {
		c.stats.misses++
		common.LogCacheMiss("recipe_detail", strconv.Itoa(recipeID))
		return nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.store, recipeID)
		c.stats.evictions++
		c.stats.misses++
		common.LogCacheMiss("recipe_detail", strconv.Itoa(recipeID))
		return nil
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	c.store[recipeID] = entry
	c.stats.hits++
	common.LogCacheHit("recipe_detail", strconv.Itoa(recipeID))
	return entry.detail
}

// Set stores a detail payload. A full cache evicts expired entries first,
// then the least-used one.
func (c *DetailCache) Set(recipeID int, detail *Detail) {
	if c == nil || detail == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[recipeID]; !exists && len(c.store) >= c.cfg.MaxSize {
		c.removeExpired()
		if len(c.store) >= c.cfg.MaxSize {
			c.evictLRU()
		}
	}

	now := time.Now()
	c.store[recipeID] = detailEntry{
		detail:     detail,
		expiresAt:  now.Add(c.cfg.TTL),
		lastAccess: now,
	}
}

// Stats reports counters for the health endpoint.
func (c *DetailCache) Stats() map[string]interface{} {
	if c == nil {
		return map[string]interface{}{"enabled": false}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"enabled":   true,
		"size":      len(c.store),
		"max_size":  c.cfg.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
	}
}

// Close stops the cleanup loop and drops all entries.
func (c *DetailCache) Close() {
	if c == nil {
		return
	}
	close(c.done)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[int]detailEntry)
}

func (c *DetailCache) cleanupLoop() {
	ticker := time.NewTicker(c.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			removed := c.removeExpired()
			c.mu.Unlock()
			if removed > 0 {
				common.LogDebug("expired recipe details removed",
					zap.Int("count", removed),
				)
			}
		}
	}
}

// removeExpired assumes the write lock is held.
func (c *DetailCache) removeExpired() int {
	now := time.Now()
	removed := 0
	for id, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, id)
			c.stats.evictions++
			removed++
		}
	}
	return removed
}

// evictLRU assumes the write lock is held.
func (c *DetailCache) evictLRU() {
	victim := 0
	found := false
	var victimEntry detailEntry
	for id, entry := range c.store {
		if !found ||
			entry.accessCount < victimEntry.accessCount ||
			(entry.accessCount == victimEntry.accessCount && entry.lastAccess.Before(victimEntry.lastAccess)) {
			victim = id
			victimEntry = entry
			found = true
		}
	}
	if found {
		delete(c.store, victim)
		c.stats.evictions++
	}
}
