// Package config defines dynamic configuration values. A Config yields one
// untyped value from some backing source; the typed interfaces below are
// built over it by the wrapper package.
package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNoValue  = errors.New("config: no value set")
	ErrShutdown = errors.New("config: shutdown")
)

// Config yields either the raw bytes a source read or an already typed value.
type Config interface {
	Get(ctx context.Context) (interface{}, error)

	// Shutdown releases anything the source holds.
	Shutdown()
}

// Source resolves named configuration values. Implementations decide how a
// key maps onto their backing store.
type Source interface {
	Config(key string) Config
}

// Bool is a boolean typed Config.
type Bool interface {
	Get(ctx context.Context) bool
	GetSafe(ctx context.Context) (bool, error)
	Shutdown()
}

// Uint64 is a uint64 typed Config.
type Uint64 interface {
	Get(ctx context.Context) uint64
	GetSafe(ctx context.Context) (uint64, error)
	Shutdown()
}

// String is a string typed Config.
type String interface {
	Get(ctx context.Context) string
	GetSafe(ctx context.Context) (string, error)
	Shutdown()
}

// Duration is a time.Duration typed Config.
type Duration interface {
	Get(ctx context.Context) time.Duration
	GetSafe(ctx context.Context) (time.Duration, error)
	Shutdown()
}
