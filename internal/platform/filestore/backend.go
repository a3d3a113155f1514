// Package filestore implements store.Backend on the local filesystem, one
// JSON file per key.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/phrazzld/traffic-tasker/internal/store"
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Backend stores each key as <dir>/<key>.json. Writes go through a temp file
// and a rename so a crash never leaves a half-written value behind.
type Backend struct {
	dir string
	mu  sync.Mutex
}

var _ store.Backend = (*Backend)(nil)

// New returns a Backend rooted at dir. The directory is created on the first
// write.
func New(dir string) (*Backend, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	return &Backend{dir: dir}, nil
}

// Dir returns the directory the backend writes to.
func (b *Backend) Dir() string {
	return b.dir
}

func (b *Backend) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", store.ErrInvalidKey, key)
	}
	return filepath.Join(b.dir, key+".json"), nil
}

// Get implements store.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, store.NewStoreError("file", "get", "failed to read "+path, err)
	}
	return data, nil
}

// Set implements store.Backend.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := b.path(key)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return store.NewStoreError("file", "set", "failed to create directory",
			fmt.Errorf("%w: %v", store.ErrWriteFailed, err))
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0o644); err != nil {
		return store.NewStoreError("file", "set", "failed to write temp file",
			fmt.Errorf("%w: %v", store.ErrWriteFailed, err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return store.NewStoreError("file", "set", "failed to rename temp file",
			fmt.Errorf("%w: %v", store.ErrWriteFailed, err))
	}
	return nil
}
