package balances

import (
	"fmt"

	"palletchain/primitives"
	"palletchain/support"
)

// Call is the set of balances operations reachable through Dispatch.
type Call[A any] interface {
	CallName() string
	isBalancesCall(A)
}

type Transfer[A any] struct {
	To     A
	Amount primitives.Balance
}

func (Transfer[A]) CallName() string { return "transfer" }
func (Transfer[A]) isBalancesCall(A) {}

var _ support.Dispatcher[string, Call[string]] = (*Pallet[string])(nil)

// Dispatch routes call, made by caller, to the matching pallet operation.
func (p *Pallet[A]) Dispatch(caller A, call Call[A]) error {
	switch c := call.(type) {
	case Transfer[A]:
		return p.Transfer(caller, c.To, c.Amount)
	default:
		return fmt.Errorf("%w: %s %T", support.ErrUnknownCall, PalletName, call)
	}
}
