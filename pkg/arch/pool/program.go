// Package pool builds instructions for, and decodes accounts of, the pool
// program.
package pool

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidInstructionData = errors.New("unexpected instruction data")
	ErrInvalidPoolList        = errors.New("invalid pool list account data")
	ErrInvalidPoolAccount     = errors.New("invalid pool account data")
	ErrFieldOutOfRange        = errors.New("field out of range")
	ErrInvalidNameLength      = errors.New("invalid pool name length")
)
