package replay

import (
	"context"
	"strings"
	"sync"
	"time"
)

const (
	defaultTTL        = 10 * time.Minute
	defaultMaxEntries = 8192
)

// Memory is an in-process Guard. Entries expire after their ttl; when the
// capacity is reached the entry closest to expiry is evicted.
type Memory struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]time.Time

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMemory creates a Memory guard holding at most maxEntries ids.
// A non-positive maxEntries selects a default of 8192.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	return &Memory{
		maxEntries: maxEntries,
		entries:    map[string]time.Time{},
		Now:        time.Now,
	}
}

// Claim records id and reports whether it was not already held.
func (m *Memory) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, ErrEmptyID
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if expiresAt, ok := m.entries[id]; ok && now.Before(expiresAt) {
		return false, nil
	}

	m.pruneLocked(now)

	for len(m.entries) >= m.maxEntries {
		m.evictOldestLocked()
	}

	m.entries[id] = now.Add(ttl)

	return true, nil
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked(now)

	return len(m.entries)
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}

	return time.Now()
}

func (m *Memory) pruneLocked(now time.Time) {
	for id, expiresAt := range m.entries {
		if !now.Before(expiresAt) {
			delete(m.entries, id)
		}
	}
}

func (m *Memory) evictOldestLocked() {
	var (
		oldestID string
		oldestAt time.Time
	)

	for id, expiresAt := range m.entries {
		if oldestID == "" || expiresAt.Before(oldestAt) {
			oldestID = id
			oldestAt = expiresAt
		}
	}

	delete(m.entries, oldestID)
}
