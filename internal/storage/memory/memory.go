// Package memory implements the storage backend as an in-process map.
// It exists for tests and local experiments.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/mpavlovs/attachd/internal/storage"
)

type Backend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func New() *Backend {
	return &Backend{objects: make(map[string][]byte)}
}

func (b *Backend) Store(ctx context.Context, key string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return int64(len(data)), nil
}

func (b *Backend) Retrieve(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, ok := b.objects[key]
	if !ok {
		return nil, storage.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.objects[key]; !ok {
		return storage.ErrNotExist
	}
	delete(b.objects, key)
	return nil
}

// Len reports the number of stored objects.
func (b *Backend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
