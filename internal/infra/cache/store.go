package cache

import (
	"context"
	"time"
)

// Entry is one cached HTTP response.
type Entry struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Store is a bounded, TTL-based response cache keyed by request identity.
// Implementations must be safe for concurrent use; a read-then-write race on
// the same key only produces a harmless stale overwrite.
type Store interface {
	// Get returns the entry and true on a fresh hit. Backend failures are a
	// miss, never an error: the cache degrades, the request proceeds.
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
