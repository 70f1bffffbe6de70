package webhook

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultKeyCacheSize bounds a KeyCache built with a non-positive size.
const DefaultKeyCacheSize = 16

// KeyCache memoizes secret to key derivation. It is owned by the caller and
// safe for concurrent use; two goroutines deriving the same key at once both
// store the same value.
//
// A nil *KeyCache is valid and derives the key on every call.
type KeyCache struct {
	entries *lru.Cache[string, SigningKey]
}

// NewKeyCache creates a cache holding at most size keys. Use 1 when the
// process only ever verifies against one secret.
func NewKeyCache(size int) (*KeyCache, error) {
	if size <= 0 {
		size = DefaultKeyCacheSize
	}

	entries, err := lru.New[string, SigningKey](size)
	if err != nil {
		return nil, fmt.Errorf("webhook: create key cache: %w", err)
	}

	return &KeyCache{entries: entries}, nil
}

// Resolve returns the key for secret, deriving and storing it on a miss.
// Failed derivations are not cached.
func (c *KeyCache) Resolve(secret Secret) (SigningKey, error) {
	if c == nil || c.entries == nil {
		return ResolveKey(secret)
	}

	cacheKey := secret.cacheKey()
	if cacheKey != "" {
		if key, ok := c.entries.Get(cacheKey); ok {
			return key, nil
		}
	}

	key, err := ResolveKey(secret)
	if err != nil {
		return SigningKey{}, err
	}

	c.entries.Add(cacheKey, key)

	return key, nil
}

// Len returns the number of cached keys.
func (c *KeyCache) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}

	return c.entries.Len()
}

// Purge drops every cached key.
func (c *KeyCache) Purge() {
	if c == nil || c.entries == nil {
		return
	}

	c.entries.Purge()
}
