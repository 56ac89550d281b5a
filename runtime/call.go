package runtime

import (
	"palletchain/pallets/balances"
	"palletchain/pallets/poe"
	"palletchain/primitives"
)

// RuntimeCall is the routing key every extrinsic carries: one variant per
// dispatchable pallet. Adding a pallet means adding a variant here, a case in
// Runtime.Dispatch and a case in the wire codec.
type RuntimeCall interface {
	Pallet() string
	CallName() string
	isRuntimeCall()
}

type BalancesCall struct {
	Call balances.Call[primitives.AccountID]
}

type PoECall struct {
	Call poe.Call[primitives.Content]
}

func (BalancesCall) Pallet() string { return balances.PalletName }
func (BalancesCall) isRuntimeCall() {}

func (c BalancesCall) CallName() string {
	if c.Call == nil {
		return "unknown"
	}
	return c.Call.CallName()
}

func (PoECall) Pallet() string { return poe.PalletName }
func (PoECall) isRuntimeCall() {}

func (c PoECall) CallName() string {
	if c.Call == nil {
		return "unknown"
	}
	return c.Call.CallName()
}

// Transfer builds a balances transfer call.
func Transfer(to primitives.AccountID, amount primitives.Balance) RuntimeCall {
	return BalancesCall{Call: balances.Transfer[primitives.AccountID]{To: to, Amount: amount}}
}

// CreateClaim builds a proof-of-existence claim call.
func CreateClaim(claim primitives.Content) RuntimeCall {
	return PoECall{Call: poe.CreateClaim[primitives.Content]{Claim: claim}}
}

// RevokeClaim builds a proof-of-existence revoke call.
func RevokeClaim(claim primitives.Content) RuntimeCall {
	return PoECall{Call: poe.RevokeClaim[primitives.Content]{Claim: claim}}
}

func callTag(call RuntimeCall) (pallet, name string) {
	if call == nil {
		return "unknown", "unknown"
	}
	return call.Pallet(), call.CallName()
}
