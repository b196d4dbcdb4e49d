package ports

import (
	"context"
	"time"
)

// Cache is a small key-value capability for best-effort pointers such as the
// latest import run. Adapters may be backed by the database or Redis.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
