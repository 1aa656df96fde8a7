package pricefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps the latest price per (metal, currency) in Redis so the read
// endpoint does not hit Postgres on every poll. A nil client disables
// caching; every method degrades to a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(metal, currency string) string {
	return fmt.Sprintf("pricefeed:latest:%s:%s", metal, currency)
}

// Get returns the cached price or (nil, nil) on a miss.
func (c *Cache) Get(ctx context.Context, metal, currency string) (*MetalPrice, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, cacheKey(metal, currency)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var p MetalPrice
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, nil
	}
	return &p, nil
}

func (c *Cache) Set(ctx context.Context, p MetalPrice) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(p.Metal, p.Currency), raw, c.ttl).Err()
}
