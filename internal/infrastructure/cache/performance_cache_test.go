package cache

import (
	"testing"
	"time"

	teamapp "github.com/shopx/backoffice/internal/application/team"
	"github.com/stretchr/testify/assert"
)

func TestMemoryPerformanceCache(t *testing.T) {
	t.Run("get returns stored value before expiry", func(t *testing.T) {
		c := NewMemoryPerformanceCache(nil)
		defer c.Close()

		value := &teamapp.PerformanceResponse{}
		c.Set("perf:a:2026-07", value, time.Minute)

		got, ok := c.Get("perf:a:2026-07")
		assert.True(t, ok)
		assert.Same(t, value, got)
	})

	t.Run("get misses after expiry", func(t *testing.T) {
		c := NewMemoryPerformanceCache(nil)
		defer c.Close()

		c.Set("perf:a:2026-07", &teamapp.PerformanceResponse{}, time.Millisecond)
		time.Sleep(5 * time.Millisecond)

		_, ok := c.Get("perf:a:2026-07")
		assert.False(t, ok)
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		c := NewMemoryPerformanceCache(nil)
		defer c.Close()

		c.Set("perf:a:2026-07", &teamapp.PerformanceResponse{}, time.Minute)
		c.Delete("perf:a:2026-07")

		_, ok := c.Get("perf:a:2026-07")
		assert.False(t, ok)
	})

	t.Run("delete by prefix removes only matching entries", func(t *testing.T) {
		c := NewMemoryPerformanceCache(nil)
		defer c.Close()

		c.Set("perf:a:2026-07", &teamapp.PerformanceResponse{}, time.Minute)
		c.Set("perf:a:2026-08", &teamapp.PerformanceResponse{}, time.Minute)
		c.Set("perf:b:2026-07", &teamapp.PerformanceResponse{}, time.Minute)

		c.DeleteByPrefix("perf:a:")

		_, okA1 := c.Get("perf:a:2026-07")
		_, okA2 := c.Get("perf:a:2026-08")
		_, okB := c.Get("perf:b:2026-07")
		assert.False(t, okA1)
		assert.False(t, okA2)
		assert.True(t, okB)
	})

	t.Run("nil value and non-positive ttl are ignored", func(t *testing.T) {
		c := NewMemoryPerformanceCache(nil)
		defer c.Close()

		c.Set("a", nil, time.Minute)
		c.Set("b", &teamapp.PerformanceResponse{}, 0)

		_, okA := c.Get("a")
		_, okB := c.Get("b")
		assert.False(t, okA)
		assert.False(t, okB)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewMemoryPerformanceCache(nil)
		assert.NoError(t, c.Close())
		assert.NoError(t, c.Close())
	})
}
