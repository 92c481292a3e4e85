// Package store defines the key/value persistence used to cache wallet
// connection state between runs.
package store

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("no value found for key")
	ErrInvalidKey = errors.New("invalid key")
)

// Store is a small key/value store. Values are opaque to the store.
//
// Writes to the same key from separate processes are last-writer-wins.
type Store interface {
	// Get returns ErrNotFound if no value exists for key.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put creates or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidateKey reports whether key is usable across all Store implementations.
func ValidateKey(key string) error {
	if len(key) == 0 {
		return errors.Wrap(ErrInvalidKey, "key is empty")
	}

	for _, r := range key {
		if r == '/' || r == '\\' || r == 0 {
			return errors.Wrapf(ErrInvalidKey, "key %q contains a reserved character", key)
		}
	}

	return nil
}
