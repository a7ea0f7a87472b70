package metadata

import (
	"context"
)

// Repository is a small key/value table for client-side state such as the
// cached session and the remote refresh token.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
