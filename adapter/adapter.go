package adapter

import (
	"context"
	"io"
)

// TokenStorageAdapter persists the SDK's auth token between calls.
//
// Retrieve reports ok=false with a nil error when no token is stored.
type TokenStorageAdapter interface {
	Store(ctx context.Context, token string) error
	Retrieve(ctx context.Context) (token string, ok bool, err error)
	Clear(ctx context.Context) error
}

// Close releases resources held by adapters that own a connection.
// It is a no-op for adapters that do not.
func Close(a TokenStorageAdapter) error {
	if c, ok := a.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
