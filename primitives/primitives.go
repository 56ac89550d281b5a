// Package primitives binds the concrete types the runtime instantiates its
// pallets with.
package primitives

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

type (
	AccountID   string
	BlockNumber uint32
	Nonce       uint32
	Content     string
)

// Balance is an unsigned 256-bit word. Stored balances never exceed
// MaxBalance.
type Balance = uint256.Int

// BalanceBits is the width of the balance type the runtime exposes.
const BalanceBits = 128

var ErrInvalidBalance = errors.New("invalid balance")

var maxBalance = func() Balance {
	one := uint256.NewInt(1)
	limit := new(uint256.Int).Lsh(one, BalanceBits)
	return *limit.Sub(limit, one)
}()

// MaxBalance returns 2^128 - 1.
func MaxBalance() Balance {
	return maxBalance
}

// NewBalance returns v as a Balance.
func NewBalance(v uint64) Balance {
	return *uint256.NewInt(v)
}

// ParseBalance parses a base-10 amount and rejects values above MaxBalance.
func ParseBalance(s string) (Balance, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Balance{}, fmt.Errorf("%w: empty amount", ErrInvalidBalance)
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Balance{}, fmt.Errorf("%w %q: %v", ErrInvalidBalance, s, err)
	}
	if v.Gt(&maxBalance) {
		return Balance{}, fmt.Errorf("%w %q: exceeds %d bits", ErrInvalidBalance, s, BalanceBits)
	}
	return *v, nil
}

// FormatBalance renders b in base 10.
func FormatBalance(b Balance) string {
	return b.Dec()
}
