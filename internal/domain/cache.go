package domain

import "context"

// Cache holds derived views that can be dropped and rebuilt at any time.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Delete(ctx context.Context, key string)
}
