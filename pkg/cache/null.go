package cache

import (
	"context"
	"time"
)

// NullCache misses every read and discards every write. It backs the
// "none" backend and the --no-cache flag, where each run recomputes the
// seed, layout, and artifacts from scratch.
type NullCache struct{}

// NewNullCache returns a cache that never stores anything.
func NewNullCache() Cache {
	return &NullCache{}
}

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (*NullCache) Delete(context.Context, string) error {
	return nil
}

func (*NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
