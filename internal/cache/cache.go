// Package cache is a thin optional Redis layer for map payloads. The GeoJSON
// endpoint re-serializes every entity on each request; caching the rendered
// payload keeps repeated map loads off the database.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Client struct {
	rdb *redis.Client
}

// New returns nil when addr is empty; every method is nil-safe, so callers
// don't need to care whether Redis is configured.
func New(addr, pass string) *Client {
	if addr == "" {
		return nil
	}
	return &Client{rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass})}
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Client) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if c == nil {
		return
	}
	c.rdb.Set(ctx, key, val, ttl)
}

func (c *Client) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
