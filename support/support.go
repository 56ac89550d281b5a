// Package support holds the contracts shared by every pallet and the runtime
// that hosts them: the counter constraint for block numbers and nonces, the
// dispatch contract, and the generic block containers.
package support

import (
	"errors"
	"fmt"
)

// ErrUnknownCall is returned when a dispatcher receives a call variant it does
// not route.
var ErrUnknownCall = errors.New("unknown call")

// ErrCounterOverflow is the panic value (wrapped) raised when a block number or
// nonce would wrap around.
var ErrCounterOverflow = errors.New("counter overflow")

// Counter is the constraint for block numbers and nonces.
type Counter interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// CheckedInc returns n+1, or n and false when n is already the maximum value
// of its type.
func CheckedInc[N Counter](n N) (N, bool) {
	next := n + 1
	if next < n {
		return n, false
	}
	return next, true
}

// MustInc returns n+1 and panics when the increment would wrap.
func MustInc[N Counter](n N, what string) N {
	next, ok := CheckedInc(n)
	if !ok {
		panic(fmt.Errorf("%w: %s at %d", ErrCounterOverflow, what, n))
	}
	return next
}

// Dispatcher routes a call made by caller to the operation it names.
type Dispatcher[Caller any, Call any] interface {
	Dispatch(caller Caller, call Call) error
}

// DispatchError tags a pallet failure with the pallet and call that produced
// it. The wrapped error is reachable with errors.Is and errors.As.
type DispatchError struct {
	Pallet string
	Call   string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Pallet, e.Call, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}
