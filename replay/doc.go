// Package replay provides guards that remember accepted webhook ids so that
// a delivery is handled at most once inside its validity window.
//
// Both guards satisfy webhook.ReplayGuard.
package replay

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyID is returned when Claim is called with an empty id.
var ErrEmptyID = errors.New("replay: webhook id is required")

// Guard claims webhook ids for a limited time.
type Guard interface {
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
}

var (
	_ Guard = (*Memory)(nil)
	_ Guard = (*Redis)(nil)
)
