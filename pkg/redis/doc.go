// Package redis connects to the Redis server that backs the shared tenant
// cache.
//
// Connect retries until the server answers a ping, which lets replicas start
// before Redis is ready. The returned client is handed to
// tenant.NewRedisCache so every replica resolves identifiers through the
// same cache, and renames or deletions evicted by one replica are seen by all.
//
// # Usage
//
//	cfg, err := config.Load[redis.Config]()
//	if err != nil {
//		return err
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	cache := tenant.NewRedisCache(client, cfg.KeyPrefix)
//
// Healthcheck adapts the client to a func(context.Context) error readiness probe.
package redis
