package rdx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps the Redis client used for read-through caching of catalog
// records and as the transport for the order event channel.
type Cache struct {
	Conn *redis.Client
}

func New(addr string) *Cache {
	return &Cache{
		Conn: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

const cacheTTL = 10 * time.Minute

func (c *Cache) RdxSet(ctx context.Context, key, value string) error {
	return c.Conn.Set(ctx, key, value, cacheTTL).Err()
}

func (c *Cache) RdxGet(ctx context.Context, key string) (string, error) {
	return c.Conn.Get(ctx, key).Result()
}

func (c *Cache) RdxDel(ctx context.Context, key string) (int64, error) {
	return c.Conn.Del(ctx, key).Result()
}

func (c *Cache) Close() error {
	return c.Conn.Close()
}
