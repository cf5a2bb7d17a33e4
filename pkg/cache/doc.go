// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry.
//
// The cache evicts the least recently used entry once it reaches its capacity.
// Entries stored with a positive TTL are treated as missing after they expire;
// they are removed lazily on Get or in bulk with RemoveExpired.
//
// # Usage
//
//	c := cache.New[string, uuid.UUID](1000)
//	c.Set("acme", id, 5*time.Minute)
//
//	if id, ok := c.Get("acme"); ok {
//		// use id
//	}
//
//	c.Delete("acme")
//
// Tests can freeze time with WithClock, and resources held by values can be
// released with WithEvictCallback.
//
// All operations are O(1) except RemoveExpired and Purge, which walk the whole cache.
package cache
