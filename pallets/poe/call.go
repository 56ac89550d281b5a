package poe

import (
	"fmt"

	"palletchain/support"
)

// Call is the set of proof-of-existence operations reachable through
// Dispatch. The caller is supplied by the dispatcher.
type Call[C any] interface {
	CallName() string
	isPoECall(C)
}

type CreateClaim[C any] struct {
	Claim C
}

type RevokeClaim[C any] struct {
	Claim C
}

func (CreateClaim[C]) CallName() string { return "create_claim" }
func (CreateClaim[C]) isPoECall(C)      {}

func (RevokeClaim[C]) CallName() string { return "revoke_claim" }
func (RevokeClaim[C]) isPoECall(C)      {}

var _ support.Dispatcher[string, Call[string]] = (*Pallet[string, string])(nil)

func (p *Pallet[A, C]) Dispatch(caller A, call Call[C]) error {
	switch c := call.(type) {
	case CreateClaim[C]:
		return p.CreateClaim(caller, c.Claim)
	case RevokeClaim[C]:
		return p.RevokeClaim(caller, c.Claim)
	default:
		return fmt.Errorf("%w: %s %T", support.ErrUnknownCall, PalletName, call)
	}
}
