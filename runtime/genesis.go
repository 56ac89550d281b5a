package runtime

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"palletchain/primitives"
)

var ErrGenesisApplied = errors.New("genesis can only be applied at block zero")

// Genesis is the starting state written before the first block.
type Genesis struct {
	Balances map[primitives.AccountID]primitives.Balance
}

// ApplyGenesis sets the starting balances in account order.
func (r *Runtime) ApplyGenesis(g Genesis) error {
	if r.system.BlockNumber() != 0 {
		return ErrGenesisApplied
	}
	for _, who := range slices.Sorted(maps.Keys(g.Balances)) {
		if err := r.balances.SetBalance(who, g.Balances[who]); err != nil {
			return fmt.Errorf("genesis balance of %s: %w", who, err)
		}
	}
	r.logger.WithField("accounts", len(g.Balances)).Info("Applied genesis")
	return nil
}
