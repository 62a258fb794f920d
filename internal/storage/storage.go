// Package storage defines the durable backend boundary for attachment
// bytes. Implementations exist for the local filesystem, S3-compatible
// object stores and an in-process map used by tests.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Retrieve and Delete when no object is stored
// under the given key.
var ErrNotExist = errors.New("object does not exist")

// Backend persists confirmed attachment bytes under caller-chosen keys.
// Errors propagate to the caller unchanged; no backend retries here.
type Backend interface {
	// Store writes the reader's contents under key, replacing any previous
	// object, and reports the number of bytes written.
	Store(ctx context.Context, key string, r io.Reader) (int64, error)

	// Retrieve opens the object stored under key. The caller closes the
	// returned reader.
	Retrieve(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
}
