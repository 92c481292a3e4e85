// Package retry runs idempotent actions, such as ledger RPC reads, under a
// list of composable strategies.
package retry

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retrier retries the provided action.
type Retrier interface {
	Retry(action Action, extra ...Strategy) (uint, error)
}

type retrier struct {
	strategies []Strategy
}

// NewRetrier returns a Retrier that will retry actions based off of the
// provided strategies. If no strategies are provided, the retrier acts
// as a tight-loop, retrying until no error is returned from the action.
func NewRetrier(strategies ...Strategy) Retrier {
	return &retrier{
		strategies: strategies,
	}
}

// Retry runs action with the retrier's strategies. Any extra strategies, for
// example a per call Context, are evaluated before the configured ones.
func (r *retrier) Retry(action Action, extra ...Strategy) (uint, error) {
	if len(extra) == 0 {
		return Retry(action, r.strategies...)
	}

	strategies := make([]Strategy, 0, len(extra)+len(r.strategies))
	strategies = append(strategies, extra...)
	strategies = append(strategies, r.strategies...)
	return Retry(action, strategies...)
}

// Retry executes the provided action, potentially multiple times based off of
// the provided strategies. Retry will block until the action is successful, or
// one of the provided strategies indicate no further retries should be performed.
//
// The strategies are executed in the provided order, so any strategies that
// induce delays should be specified last.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	for i := uint(1); ; i++ {
		err := action()
		if err == nil {
			return i, nil
		}

		for _, s := range strategies {
			if shouldRetry := s(i, err); !shouldRetry {
				return i, err
			}
		}
	}
}
