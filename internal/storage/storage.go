package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists at the requested key
var ErrNotFound = errors.New("object not found")

// ObjectStore provides keyed blob access to the media bucket
type ObjectStore interface {
	// Get returns a reader for the object at key, or ErrNotFound
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes size bytes from r to key, replacing any existing object
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}
