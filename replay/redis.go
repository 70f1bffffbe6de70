package replay

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces replay keys in Redis.
const DefaultKeyPrefix = "paywebhook:replay:"

// Redis is a Guard shared between processes through Redis. Each id is
// stored with SET NX and expires after its ttl.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis creates a Redis guard. An empty prefix selects DefaultKeyPrefix.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &Redis{client: client, prefix: prefix}
}

// Claim records id and reports whether it was not already held.
func (g *Redis) Claim(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, ErrEmptyID
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	ok, err := g.client.SetNX(ctx, g.prefix+id, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook id: %w", err)
	}

	return ok, nil
}
