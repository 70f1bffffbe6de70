package replay

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

func TestRedis(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		client, _ := setupTestRedis(t)
		g := NewRedis(client, "")

		ok, err := g.Claim(ctx, "msg-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = g.Claim(ctx, "msg-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys carry prefix and ttl", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		g := NewRedis(client, "test:")

		_, err := g.Claim(ctx, "msg-1", 10*time.Minute)
		require.NoError(t, err)

		assert.True(t, mr.Exists("test:msg-1"))
		assert.Equal(t, 10*time.Minute, mr.TTL("test:msg-1"))
	})

	t.Run("default prefix", func(t *testing.T) {
		client, mr := setupTestRedis(t)

		_, err := NewRedis(client, "").Claim(ctx, "msg-1", time.Minute)
		require.NoError(t, err)

		assert.True(t, mr.Exists(DefaultKeyPrefix+"msg-1"))
	})

	t.Run("claims expire", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		g := NewRedis(client, "")

		_, err := g.Claim(ctx, "msg-1", time.Minute)
		require.NoError(t, err)

		mr.FastForward(time.Minute + time.Second)

		ok, err := g.Claim(ctx, "msg-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		client, _ := setupTestRedis(t)

		_, err := NewRedis(client, "").Claim(ctx, "", time.Minute)
		assert.ErrorIs(t, err, ErrEmptyID)
	})

	t.Run("server errors are returned", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		mr.Close()

		_, err := NewRedis(client, "").Claim(ctx, "msg-1", time.Minute)
		assert.Error(t, err)
	})
}
