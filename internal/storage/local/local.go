// Package local implements the storage backend on the local filesystem.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpavlovs/attachd/internal/filex"
	"github.com/mpavlovs/attachd/internal/storage"
)

type Backend struct {
	baseDir string
}

// New creates the base directory if needed and returns a filesystem backend
// rooted there.
func New(baseDir string) (*Backend, error) {
	dir, err := filex.EnsureDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("init local storage: %w", err)
	}
	return &Backend{baseDir: dir}, nil
}

// resolve maps a storage key to a path under baseDir, rejecting keys that
// would escape it.
func (b *Backend) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("storage key is required")
	}
	path := filepath.Join(b.baseDir, filepath.FromSlash(key))
	if path != b.baseDir && !strings.HasPrefix(path, b.baseDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %q escapes base directory", key)
	}
	return path, nil
}

func (b *Backend) Store(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := b.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o770); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	// Write to a temp file next to the destination, then rename, so readers
	// never observe a partially written object.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp object: %w", err)
	}
	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("write object: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("finalize object: %w", err)
	}

	return n, nil
}

func (b *Backend) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := b.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotExist
		}
		return nil, fmt.Errorf("open object: %w", err)
	}
	return f, nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	path, err := b.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotExist
		}
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}
