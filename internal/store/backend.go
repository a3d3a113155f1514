package store

import (
	"context"
	"sync"
)

// Backend reads and writes opaque values by key.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryBackend is a Backend that keeps values in a map. Nothing survives
// the process.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string][]byte)}
}

// Get implements Backend.
func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, ErrInvalidKey
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrInvalidKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[key] = append([]byte(nil), value...)
	return nil
}
