// Package poe is the proof-of-existence pallet. Accounts claim a piece of
// content (typically its hash) and each claim has exactly one owner.
package poe

import (
	"cmp"
	"errors"
	"maps"
)

const PalletName = "poe"

var (
	ErrAlreadyClaimed = errors.New("this content is already claimed")
	ErrClaimNotFound  = errors.New("claim does not exist")
	ErrNotOwner       = errors.New("caller is not the owner of the claim")
)

// Pallet maps claimed content to its owner. An account may own many claims.
type Pallet[A comparable, C cmp.Ordered] struct {
	claims map[C]A
}

func New[A comparable, C cmp.Ordered]() *Pallet[A, C] {
	return &Pallet[A, C]{
		claims: make(map[C]A),
	}
}

// Claim returns the owner of content, if any.
func (p *Pallet[A, C]) Claim(content C) (A, bool) {
	owner, ok := p.claims[content]
	return owner, ok
}

// CreateClaim records caller as the owner of content.
func (p *Pallet[A, C]) CreateClaim(caller A, content C) error {
	if _, ok := p.claims[content]; ok {
		return ErrAlreadyClaimed
	}
	p.claims[content] = caller
	return nil
}

// RevokeClaim removes the claim on content. Only its owner may revoke it.
func (p *Pallet[A, C]) RevokeClaim(caller A, content C) error {
	owner, ok := p.claims[content]
	if !ok {
		return ErrClaimNotFound
	}
	if owner != caller {
		return ErrNotOwner
	}
	delete(p.claims, content)
	return nil
}

// Claims returns a copy of every claim.
func (p *Pallet[A, C]) Claims() map[C]A {
	return maps.Clone(p.claims)
}
