package repository

import (
	"context"
	"time"
)

// StateStore holds short-lived values such as cached signup outcomes.
// Implementations: Redis (multi-instance) or in-memory (single instance, tests).
// Get returns nil, nil for a missing or expired key.
type StateStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
