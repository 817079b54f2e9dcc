package blobstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

// Store is a string key-value store grouped by namespace. Put must not return
// before the value is durable, so a Get that follows a successful Put always
// observes it.
type Store interface {
	// Get returns ErrNotFound when no value was ever stored under namespace/key.
	Get(ctx context.Context, namespace, key string) (string, error)
	Put(ctx context.Context, namespace, key, value string) error
}
