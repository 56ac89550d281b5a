// Package balances is the pallet that tracks how many tokens each account
// holds and moves them between accounts.
package balances

import (
	"cmp"
	"errors"
	"maps"

	"github.com/holiman/uint256"

	"palletchain/primitives"
)

const PalletName = "balances"

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOverflow            = errors.New("overflow when adding to balance")
)

// Config is what the host runtime supplies to the pallet.
type Config struct {
	// MaxBalance is the largest balance an account may hold.
	MaxBalance primitives.Balance
}

func DefaultConfig() Config {
	return Config{MaxBalance: primitives.MaxBalance()}
}

type Pallet[A cmp.Ordered] struct {
	cfg      Config
	balances map[A]primitives.Balance
}

func New[A cmp.Ordered](cfg Config) *Pallet[A] {
	return &Pallet[A]{
		cfg:      cfg,
		balances: make(map[A]primitives.Balance),
	}
}

// SetBalance overwrites the balance of who. It is a genesis/admin operation
// and cannot be reached through Dispatch.
func (p *Pallet[A]) SetBalance(who A, amount primitives.Balance) error {
	if amount.Gt(&p.cfg.MaxBalance) {
		return ErrOverflow
	}
	p.balances[who] = amount
	return nil
}

// Balance returns the balance of who, zero if nothing is stored.
func (p *Pallet[A]) Balance(who A) primitives.Balance {
	return p.balances[who]
}

// Transfer moves amount from caller to to. Both new balances are computed
// from the balances before the call and written only if neither check fails.
func (p *Pallet[A]) Transfer(caller, to A, amount primitives.Balance) error {
	callerBalance := p.Balance(caller)
	toBalance := p.Balance(to)

	newCallerBalance, underflow := new(uint256.Int).SubOverflow(&callerBalance, &amount)
	if underflow {
		return ErrInsufficientBalance
	}

	newToBalance, overflow := new(uint256.Int).AddOverflow(&toBalance, &amount)
	if overflow || newToBalance.Gt(&p.cfg.MaxBalance) {
		return ErrOverflow
	}

	// A self-transfer that passed both checks leaves the balance as it was.
	if caller == to {
		return nil
	}

	p.balances[caller] = *newCallerBalance
	p.balances[to] = *newToBalance
	return nil
}

// Balances returns a copy of every stored balance.
func (p *Pallet[A]) Balances() map[A]primitives.Balance {
	return maps.Clone(p.balances)
}

// TotalIssuance sums every stored balance.
func (p *Pallet[A]) TotalIssuance() primitives.Balance {
	var total uint256.Int
	for _, b := range p.balances {
		total.Add(&total, &b)
	}
	return total
}
