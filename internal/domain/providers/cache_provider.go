package providers

import "context"

// CacheProvider is the byte-oriented cache contract used by the cached
// directory wrapper. Implementations must treat a missing key as an error.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, keys ...string) error
}
