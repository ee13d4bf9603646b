//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"curtail/internal/types"
)

func setupRedis(t *testing.T) *Cache {
	t.Helper()

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c, err := ConnectRedis(endpoint, "", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return c
}

func TestCache_SetGet(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "abc")
	assert.ErrorIs(t, err, redis.Nil)

	link := types.Link{
		RecordID:  "0192a3b4-c5d6-7e8f-9012-3456789abcde",
		ShortCode: "abc",
		Target:    "https://example.com",
	}
	require.NoError(t, c.Set(ctx, link))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, link, *got)

	ttl, err := c.rdb.TTL(ctx, keyPrefix+"abc").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestConnectRedis_Unreachable(t *testing.T) {
	_, err := ConnectRedis("127.0.0.1:1", "", time.Minute)
	assert.Error(t, err)
}
