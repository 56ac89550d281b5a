// Package runtime assembles the pallets into a state transition function. It
// owns one instance of every pallet, routes RuntimeCall values to them and
// executes blocks of extrinsics.
package runtime

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"palletchain/pallets/balances"
	"palletchain/pallets/poe"
	"palletchain/pallets/system"
	"palletchain/primitives"
	"palletchain/support"
)

// The pallet and block types the runtime instantiates.
type (
	System   = system.Pallet[primitives.AccountID, primitives.BlockNumber, primitives.Nonce]
	Balances = balances.Pallet[primitives.AccountID]
	PoE      = poe.Pallet[primitives.AccountID, primitives.Content]

	Header    = support.Header[primitives.BlockNumber]
	Extrinsic = support.Extrinsic[primitives.AccountID, RuntimeCall]
	Block     = support.Block[primitives.BlockNumber, primitives.AccountID, RuntimeCall]
)

var ErrBlockNumberMismatch = errors.New("block number does not match what is expected")

// BlockNumberMismatchError is returned when a block does not carry the number
// that follows the current one. Nothing in the block is executed.
type BlockNumberMismatchError struct {
	Expected primitives.BlockNumber
	Got      primitives.BlockNumber
}

func (e *BlockNumberMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %d, got %d", ErrBlockNumberMismatch, e.Expected, e.Got)
}

func (e *BlockNumberMismatchError) Is(target error) bool {
	return target == ErrBlockNumberMismatch
}

// Config carries everything the runtime injects into its pallets.
type Config struct {
	Balances balances.Config
	// Reporter receives the outcome of every extrinsic. Nil logs failures.
	Reporter Reporter
	Logger   log.FieldLogger
}

func DefaultConfig() Config {
	return Config{
		Balances: balances.DefaultConfig(),
	}
}

type Runtime struct {
	system   *System
	balances *Balances
	poe      *PoE

	reporter Reporter
	logger   log.FieldLogger
}

var _ support.Dispatcher[primitives.AccountID, RuntimeCall] = (*Runtime)(nil)

// New creates a runtime with empty pallets at block zero.
func New(cfg Config) *Runtime {
	logger := cfg.Logger
	if logger == nil {
		logger = log.WithField("pkg", "runtime")
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = NewLogReporter(logger)
	}

	return &Runtime{
		system:   system.New[primitives.AccountID, primitives.BlockNumber, primitives.Nonce](),
		balances: balances.New[primitives.AccountID](cfg.Balances),
		poe:      poe.New[primitives.AccountID, primitives.Content](),
		reporter: reporter,
		logger:   logger,
	}
}

func (r *Runtime) BlockNumber() primitives.BlockNumber {
	return r.system.BlockNumber()
}

func (r *Runtime) Nonce(who primitives.AccountID) primitives.Nonce {
	return r.system.Nonce(who)
}

func (r *Runtime) Balance(who primitives.AccountID) primitives.Balance {
	return r.balances.Balance(who)
}

func (r *Runtime) Claim(content primitives.Content) (primitives.AccountID, bool) {
	return r.poe.Claim(content)
}

// Dispatch strips the pallet tag from call and forwards it to that pallet.
// Pallet failures come back wrapped in a *support.DispatchError.
func (r *Runtime) Dispatch(caller primitives.AccountID, call RuntimeCall) error {
	var err error
	switch c := call.(type) {
	case BalancesCall:
		err = r.balances.Dispatch(caller, c.Call)
	case PoECall:
		err = r.poe.Dispatch(caller, c.Call)
	default:
		return fmt.Errorf("%w: %T", support.ErrUnknownCall, call)
	}
	if err != nil {
		return &support.DispatchError{Pallet: call.Pallet(), Call: call.CallName(), Err: err}
	}
	return nil
}

// ExecuteBlock advances the block number, checks it against the header and
// applies every extrinsic in order. A failing extrinsic is reported and
// skipped. Only a block number mismatch fails the block: no extrinsic is
// applied, but the block number stays advanced.
func (r *Runtime) ExecuteBlock(block Block) error {
	return r.executeBlock(block, r.reporter)
}

// ExecuteBlockWithReceipt is ExecuteBlock that also collects the outcome of
// every extrinsic into a Receipt.
func (r *Runtime) ExecuteBlockWithReceipt(block Block) (*Receipt, error) {
	receipt := &Receipt{BlockNumber: block.Header.BlockNumber}
	if err := r.executeBlock(block, Tee(r.reporter, receipt)); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *Runtime) executeBlock(block Block, reporter Reporter) error {
	r.system.IncBlockNumber()

	number := r.system.BlockNumber()
	if block.Header.BlockNumber != number {
		return &BlockNumberMismatchError{Expected: number, Got: block.Header.BlockNumber}
	}

	failed := 0
	for i, ext := range block.Extrinsics {
		r.system.IncNonce(ext.Caller)

		err := r.Dispatch(ext.Caller, ext.Call)
		if err != nil {
			failed++
		}

		pallet, call := callTag(ext.Call)
		reporter.ReportExtrinsic(ExtrinsicOutcome{
			BlockNumber: number,
			Index:       i,
			Caller:      ext.Caller,
			Pallet:      pallet,
			Call:        call,
			Err:         err,
		})
	}

	r.logger.WithFields(log.Fields{
		"block":      number,
		"extrinsics": len(block.Extrinsics),
		"failed":     failed,
	}).Debug("Executed block")
	return nil
}
