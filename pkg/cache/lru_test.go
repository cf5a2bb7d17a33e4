package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestTTLCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()

		c := cache.New[string, int](3)
		c.Set("a", 1, 0)
		c.Set("b", 2, 0)

		val, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 1, val)

		val, ok = c.Get("b")
		require.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()

		c := cache.New[string, int](3)
		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("set replaces value", func(t *testing.T) {
		t.Parallel()

		c := cache.New[string, int](3)
		c.Set("a", 1, 0)
		c.Set("a", 2, 0)

		val, ok := c.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()

		c := cache.New[string, int](3)
		c.Set("a", 1, 0)

		assert.True(t, c.Delete("a"))
		assert.False(t, c.Delete("a"))
		_, ok := c.Get("a")
		assert.False(t, ok)
	})
}

func TestTTLCache_Eviction(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		var evicted []string
		c := cache.New(2, cache.WithEvictCallback(func(key string, _ int) {
			evicted = append(evicted, key)
		}))

		c.Set("a", 1, 0)
		c.Set("b", 2, 0)
		c.Get("a")
		c.Set("c", 3, 0)

		_, ok := c.Get("b")
		assert.False(t, ok, "b should have been evicted")
		_, ok = c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, []string{"b"}, evicted)
	})

	t.Run("purge calls callback for every entry", func(t *testing.T) {
		t.Parallel()

		evicted := map[string]int{}
		c := cache.New(3, cache.WithEvictCallback(func(key string, v int) {
			evicted[key] = v
		}))
		c.Set("a", 1, 0)
		c.Set("b", 2, 0)

		c.Purge()

		assert.Equal(t, 0, c.Len())
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, evicted)
	})

	t.Run("panics on non-positive capacity", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() { cache.New[string, int](0) })
		assert.Panics(t, func() { cache.New[string, int](-1) })
	})
}

func TestTTLCache_Expiry(t *testing.T) {
	t.Parallel()

	t.Run("entry expires after ttl", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := cache.New(10, cache.WithClock[string, int](clock.Now))

		c.Set("a", 1, time.Minute)
		_, ok := c.Get("a")
		require.True(t, ok)

		clock.Advance(time.Minute)
		_, ok = c.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := cache.New(10, cache.WithClock[string, int](clock.Now))

		c.Set("a", 1, 0)
		clock.Advance(24 * time.Hour)

		_, ok := c.Get("a")
		assert.True(t, ok)
	})

	t.Run("remove expired", func(t *testing.T) {
		t.Parallel()

		clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		c := cache.New(10, cache.WithClock[string, int](clock.Now))

		c.Set("short", 1, time.Second)
		c.Set("long", 2, time.Hour)
		c.Set("forever", 3, 0)
		clock.Advance(time.Minute)

		assert.Equal(t, 1, c.RemoveExpired())
		assert.Equal(t, 2, c.Len())
	})
}

func TestTTLCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](100)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Set(n, n*2, time.Minute)
			c.Get(n)
			if n%2 == 0 {
				c.Delete(n)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}

func BenchmarkTTLCache_Mixed(b *testing.B) {
	c := cache.New[int, int](1000)

	b.ResetTimer()
	for i := range b.N {
		if i%2 == 0 {
			c.Set(i%2000, i, time.Minute)
		} else {
			c.Get(i % 2000)
		}
	}
}
