package cache

import (
	"context"
	"errors"
)

// ErrCacheMiss is returned by [Lookup] when key holds no live entry.
var ErrCacheMiss = errors.New("cache miss")

// Lookup is Get with a miss reported as ErrCacheMiss.
func Lookup(ctx context.Context, c Cache, key string) ([]byte, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}
