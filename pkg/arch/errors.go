package arch

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/ybbus/jsonrpc"
)

var (
	ErrNoAccountInfo      = errors.New("no account info")
	ErrSubmissionRejected = errors.New("transaction submission rejected")
)

// SubmissionRejectedError is returned when the ledger node refuses a
// transaction. The node supplied payload is preserved for display.
type SubmissionRejectedError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *SubmissionRejectedError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("%s: code=%d message=%q data=%v", ErrSubmissionRejected, e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("%s: code=%d message=%q", ErrSubmissionRejected, e.Code, e.Message)
}

func (e *SubmissionRejectedError) Is(target error) bool {
	return target == ErrSubmissionRejected
}

// ParseRPCError converts the error returned by a send_transaction call. A
// node side error becomes a *SubmissionRejectedError; anything else (for
// example a transport failure) is returned unchanged.
func ParseRPCError(err error) error {
	if err == nil {
		return nil
	}

	switch e := err.(type) {
	case *jsonrpc.RPCError:
		return &SubmissionRejectedError{
			Code:    e.Code,
			Message: e.Message,
			Data:    e.Data,
		}
	case *jsonrpc.HTTPError:
		return &SubmissionRejectedError{
			Code:    e.Code,
			Message: e.Error(),
		}
	}

	return err
}

func isAccountNotFound(err *jsonrpc.RPCError) bool {
	return strings.Contains(strings.ToLower(err.Message), "not found")
}
