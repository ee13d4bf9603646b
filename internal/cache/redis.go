package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"curtail/internal/types"
)

const keyPrefix = "link:"

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func ConnectRedis(url, password string, ttl time.Duration) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return New(rdb, ttl), nil
}

// New wraps an existing client. A zero ttl keeps entries until evicted,
// which is safe because links never change.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get returns redis.Nil when the short code is not cached.
func (c *Cache) Get(ctx context.Context, shortCode string) (*types.Link, error) {
	raw, err := c.rdb.Get(ctx, keyPrefix+shortCode).Bytes()
	if err != nil {
		return nil, err
	}

	var link types.Link
	if err := json.Unmarshal(raw, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *Cache) Set(ctx context.Context, link types.Link) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyPrefix+link.ShortCode, raw, c.ttl).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
