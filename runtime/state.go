package runtime

import (
	"maps"
	"slices"

	"palletchain/primitives"
)

// AccountState is the per-account view across the system and balances
// pallets.
type AccountState struct {
	Account primitives.AccountID `json:"account"`
	Balance string               `json:"balance"`
	Nonce   primitives.Nonce     `json:"nonce"`
}

type ClaimState struct {
	Content primitives.Content   `json:"content"`
	Owner   primitives.AccountID `json:"owner"`
}

// StateSnapshot is a deterministic copy of the whole runtime state. Accounts
// and claims are sorted by key.
type StateSnapshot struct {
	BlockNumber   primitives.BlockNumber `json:"block_number"`
	TotalIssuance string                 `json:"total_issuance"`
	Accounts      []AccountState         `json:"accounts"`
	Claims        []ClaimState           `json:"claims"`
}

func (r *Runtime) State() StateSnapshot {
	balances := r.balances.Balances()
	nonces := r.system.Nonces()

	accounts := make(map[primitives.AccountID]struct{}, len(balances))
	for who := range balances {
		accounts[who] = struct{}{}
	}
	for who := range nonces {
		accounts[who] = struct{}{}
	}

	snapshot := StateSnapshot{
		BlockNumber:   r.system.BlockNumber(),
		TotalIssuance: primitives.FormatBalance(r.balances.TotalIssuance()),
		Accounts:      make([]AccountState, 0, len(accounts)),
		Claims:        []ClaimState{},
	}
	for _, who := range slices.Sorted(maps.Keys(accounts)) {
		snapshot.Accounts = append(snapshot.Accounts, AccountState{
			Account: who,
			Balance: primitives.FormatBalance(balances[who]),
			Nonce:   nonces[who],
		})
	}

	claims := r.poe.Claims()
	for _, content := range slices.Sorted(maps.Keys(claims)) {
		snapshot.Claims = append(snapshot.Claims, ClaimState{Content: content, Owner: claims[content]})
	}
	return snapshot
}

// Account returns the state of one account, zero valued if unknown.
func (r *Runtime) Account(who primitives.AccountID) AccountState {
	return AccountState{
		Account: who,
		Balance: primitives.FormatBalance(r.balances.Balance(who)),
		Nonce:   r.system.Nonce(who),
	}
}
