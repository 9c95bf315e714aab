package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	teamapp "github.com/shopx/backoffice/internal/application/team"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// MemoryPerformanceCache implements PerformanceCache using in-process storage.
// Performance roll-ups walk the whole downline, so dashboard reads within the
// TTL reuse the computed result instead of hitting the database again.
type MemoryPerformanceCache struct {
	entries sync.Map // map[string]*perfEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32
}

type perfEntry struct {
	value     *teamapp.PerformanceResponse
	expiresAt time.Time
}

func (e *perfEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// NewMemoryPerformanceCache creates a cache and starts its cleanup goroutine
func NewMemoryPerformanceCache(logger *zap.Logger) *MemoryPerformanceCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &MemoryPerformanceCache{
		logger: logger,
		stopCh: make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// Get retrieves a cached performance result
func (c *MemoryPerformanceCache) Get(key string) (*teamapp.PerformanceResponse, bool) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*perfEntry)
		if !entry.isExpired() {
			return entry.value, true
		}
		c.entries.Delete(key)
	}
	return nil, false
}

// Set stores a performance result with the given TTL
func (c *MemoryPerformanceCache) Set(key string, value *teamapp.PerformanceResponse, ttl time.Duration) {
	if value == nil || ttl <= 0 {
		return
	}
	c.entries.Store(key, &perfEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
}

// Delete removes a cached result
func (c *MemoryPerformanceCache) Delete(key string) {
	c.entries.Delete(key)
}

// DeleteByPrefix removes every cached result whose key starts with prefix
func (c *MemoryPerformanceCache) DeleteByPrefix(prefix string) {
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
}

// Close stops the cleanup goroutine
func (c *MemoryPerformanceCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *MemoryPerformanceCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*perfEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Cleaned up expired performance cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}

// Ensure MemoryPerformanceCache implements PerformanceCache
var _ teamapp.PerformanceCache = (*MemoryPerformanceCache)(nil)
