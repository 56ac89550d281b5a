package processing

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"palletchain/blockchain"
	"palletchain/blockchain/store"
	"palletchain/primitives"
	"palletchain/runtime"
)

// MaxBlocksAhead bounds how far past the head a block may be parked.
const MaxBlocksAhead = 256

var ErrTooFarAhead = errors.New("block is too far ahead of the chain")

// BlockProcessor feeds blocks to the runtime in order, persists the executed
// ones and parks blocks that arrive ahead of the chain.
type BlockProcessor struct {
	runtime     *runtime.Runtime
	store       store.ChainStore
	pendingPool map[primitives.BlockNumber]runtime.Block
	logger      log.FieldLogger
	mu          sync.RWMutex
}

func NewBlockProcessor(rt *runtime.Runtime, chainStore store.ChainStore) *BlockProcessor {
	return &BlockProcessor{
		runtime:     rt,
		store:       chainStore,
		pendingPool: make(map[primitives.BlockNumber]runtime.Block),
		logger:      log.WithField("pkg", "processing"),
	}
}

// ProcessBlock executes block if it is the next one. A block numbered further
// ahead, up to MaxBlocksAhead, is kept until the blocks before it arrive. A
// stale block is rejected without touching the runtime, and so is a block
// holding a call that cannot be encoded.
func (bp *BlockProcessor) ProcessBlock(block runtime.Block) error {
	_, err := bp.AcceptBlock(block)
	return err
}

// AcceptBlock is ProcessBlock that also reports whether block was parked in
// the pending pool rather than executed.
func (bp *BlockProcessor) AcceptBlock(block runtime.Block) (pending bool, err error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pending, err = bp.processLocked(block)
	if err != nil {
		return false, err
	}
	bp.tryConnectPending()
	return pending, nil
}

// ProcessBlocks processes blocks in order and keeps going past failures. The
// returned error combines every failed block.
func (bp *BlockProcessor) ProcessBlocks(blocks []runtime.Block) error {
	var err error
	for _, block := range blocks {
		if perr := bp.ProcessBlock(block); perr != nil {
			err = multierr.Append(err, fmt.Errorf("block %d: %w", block.Header.BlockNumber, perr))
		}
	}
	return err
}

// processLocked admits only blocks whose every call can be encoded, since the
// stored block is hashed over the encoded calls.
func (bp *BlockProcessor) processLocked(block runtime.Block) (pending bool, err error) {
	stored, err := blockchain.NewStoredBlock(block)
	if err != nil {
		return false, fmt.Errorf("invalid block: %w", err)
	}

	number := block.Header.BlockNumber
	current := bp.runtime.BlockNumber()

	// A mismatched block still advances the runtime, so stale blocks never
	// reach it.
	if number <= current {
		return false, fmt.Errorf("stale block: %w", &runtime.BlockNumberMismatchError{Expected: current + 1, Got: number})
	}
	if number-current > 1 {
		if number-current > MaxBlocksAhead {
			return false, fmt.Errorf("%w: block %d, head %d", ErrTooFarAhead, number, current)
		}
		if _, ok := bp.pendingPool[number]; ok {
			bp.logger.WithField("block", number).Debug("Block already pending, ignoring")
			return true, nil
		}
		bp.pendingPool[number] = block
		bp.logger.WithFields(log.Fields{
			"block": number,
			"head":  current,
		}).Info("Block is ahead of the chain, adding to pending pool")
		return true, nil
	}

	receipt, err := bp.runtime.ExecuteBlockWithReceipt(block)
	if err != nil {
		return false, fmt.Errorf("block execution failed: %w", err)
	}

	// The runtime has already advanced, so a store failure leaves the two out
	// of step. The memory store only fails on ordering, which the runtime has
	// just checked.
	if err := bp.store.AddBlock(stored, receipt); err != nil {
		return false, fmt.Errorf("failed to persist block to store: %w", err)
	}

	bp.logger.WithFields(log.Fields{
		"block":      number,
		"hash":       fmt.Sprintf("%x", stored.Hash[:8]),
		"extrinsics": len(block.Extrinsics),
		"failed":     len(receipt.Failed()),
	}).Info("Block added to chain")
	return false, nil
}

// tryConnectPending executes pending blocks for as long as the next one is
// in the pool.
func (bp *BlockProcessor) tryConnectPending() {
	for {
		next := bp.runtime.BlockNumber() + 1
		block, ok := bp.pendingPool[next]
		if !ok {
			break
		}
		delete(bp.pendingPool, next)

		if _, err := bp.processLocked(block); err != nil {
			bp.logger.WithError(err).WithField("block", next).Warn("Failed to connect pending block")
			break
		}
		bp.logger.WithField("block", next).Info("Connected pending block to chain")
	}

	if len(bp.pendingPool) > 0 {
		bp.logger.Debugf("Still have %d pending blocks waiting for predecessors", len(bp.pendingPool))
	}
}

// View runs fn with read access to the runtime and the store. fn must not
// mutate either.
func (bp *BlockProcessor) View(fn func(rt *runtime.Runtime, chain store.ChainStore) error) error {
	bp.mu.RLock()
	defer bp.mu.RUnlock()
	return fn(bp.runtime, bp.store)
}

// GetPendingCount returns the number of blocks waiting for their predecessors.
func (bp *BlockProcessor) GetPendingCount() int {
	bp.mu.RLock()
	defer bp.mu.RUnlock()
	return len(bp.pendingPool)
}
