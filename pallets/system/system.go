// Package system is the pallet holding the low level state every runtime
// needs: the current block number and a nonce per account.
package system

import (
	"cmp"
	"maps"

	"palletchain/support"
)

const PalletName = "system"

// Pallet is not dispatchable; only the runtime drives it.
type Pallet[A cmp.Ordered, B support.Counter, N support.Counter] struct {
	blockNumber B
	nonces      map[A]N
}

func New[A cmp.Ordered, B support.Counter, N support.Counter]() *Pallet[A, B, N] {
	return &Pallet[A, B, N]{
		nonces: make(map[A]N),
	}
}

// BlockNumber returns the number of the last executed block.
func (p *Pallet[A, B, N]) BlockNumber() B {
	return p.blockNumber
}

// IncBlockNumber advances the block number by one and panics on overflow.
func (p *Pallet[A, B, N]) IncBlockNumber() {
	p.blockNumber = support.MustInc(p.blockNumber, "block number")
}

// IncNonce records one more extrinsic made by who.
func (p *Pallet[A, B, N]) IncNonce(who A) {
	p.nonces[who] = support.MustInc(p.nonces[who], "nonce")
}

// Nonce returns the nonce of who, zero if who never made an extrinsic.
func (p *Pallet[A, B, N]) Nonce(who A) N {
	return p.nonces[who]
}

// Nonces returns a copy of every stored nonce.
func (p *Pallet[A, B, N]) Nonces() map[A]N {
	return maps.Clone(p.nonces)
}
