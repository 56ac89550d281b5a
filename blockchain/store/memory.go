package store

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"palletchain/blockchain"
	"palletchain/runtime"
)

var (
	ErrBlockNotFound   = errors.New("block not found")
	ErrReceiptNotFound = errors.New("receipt not found")
)

// ErrOutOfOrder is returned when a block does not extend the stored head.
type ErrOutOfOrder struct {
	Expected uint64
	Got      uint64
}

func (e ErrOutOfOrder) Error() string {
	return fmt.Sprintf("block %d does not extend the chain, expected %d", e.Got, e.Expected)
}

// MemoryChainStore keeps every executed block in memory. Receipts are kept
// for the most recent blocks only.
type MemoryChainStore struct {
	blocks   []*blockchain.StoredBlock
	byHash   map[blockchain.Hash32]int
	receipts *lru.Cache
	mu       sync.RWMutex
}

func NewMemoryChainStore(receiptCache int) (*MemoryChainStore, error) {
	receipts, err := lru.New(receiptCache)
	if err != nil {
		return nil, fmt.Errorf("create receipt cache: %w", err)
	}
	return &MemoryChainStore{
		blocks:   make([]*blockchain.StoredBlock, 0),
		byHash:   make(map[blockchain.Hash32]int),
		receipts: receipts,
	}, nil
}

// AddBlock appends block, which must be numbered one past the head. Block
// number n lives at index n-1.
func (m *MemoryChainStore) AddBlock(block *blockchain.StoredBlock, receipt *runtime.Receipt) error {
	if block == nil {
		return errors.New("block is nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expected := uint64(len(m.blocks)) + 1
	if block.Number() != expected {
		return ErrOutOfOrder{Expected: expected, Got: block.Number()}
	}

	m.byHash[block.Hash] = len(m.blocks)
	m.blocks = append(m.blocks, block)
	if receipt != nil {
		m.receipts.Add(block.Number(), receipt)
	}
	return nil
}

// GetHeadBlock returns nil without error on an empty chain.
func (m *MemoryChainStore) GetHeadBlock() (*blockchain.StoredBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.blocks) < 1 {
		return nil, nil
	}
	return m.blocks[len(m.blocks)-1], nil
}

func (m *MemoryChainStore) GetBlockByHash(hash blockchain.Hash32) (*blockchain.StoredBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byHash[hash]
	if !ok {
		return nil, fmt.Errorf("%w: hash %x", ErrBlockNotFound, hash[:8])
	}
	return m.blocks[i], nil
}

func (m *MemoryChainStore) GetBlockByNumber(number uint64) (*blockchain.StoredBlock, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if number == 0 || number > uint64(len(m.blocks)) {
		return nil, fmt.Errorf("%w: number %d", ErrBlockNotFound, number)
	}
	return m.blocks[number-1], nil
}

// GetReceipt returns the receipt of block number, if it is still cached.
func (m *MemoryChainStore) GetReceipt(number uint64) (*runtime.Receipt, error) {
	v, ok := m.receipts.Get(number)
	if !ok {
		return nil, fmt.Errorf("%w: block %d", ErrReceiptNotFound, number)
	}
	return v.(*runtime.Receipt), nil
}

func (m *MemoryChainStore) GetChainHeight() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return uint64(len(m.blocks)), nil
}
