package wallet

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrWalletConnectionRejected = errors.New("wallet connection rejected")
	ErrNotConnected             = errors.New("wallet not connected")
	ErrSigningFailed            = errors.New("signing failed")
)

// ConnectionRejectedError is returned when a wallet connection fails. It
// matches ErrWalletConnectionRejected and unwraps to the wallet's error.
type ConnectionRejectedError struct {
	Cause error
}

func (e *ConnectionRejectedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrWalletConnectionRejected, e.Cause)
}

func (e *ConnectionRejectedError) Is(target error) bool {
	return target == ErrWalletConnectionRejected
}

func (e *ConnectionRejectedError) Unwrap() error { return e.Cause }

// SigningFailedError is returned when a signature could not be produced or
// did not verify. It matches ErrSigningFailed and unwraps to the cause.
type SigningFailedError struct {
	Cause error
}

func (e *SigningFailedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSigningFailed, e.Cause)
}

func (e *SigningFailedError) Is(target error) bool {
	return target == ErrSigningFailed
}

func (e *SigningFailedError) Unwrap() error { return e.Cause }
