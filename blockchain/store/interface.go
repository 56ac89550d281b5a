package store

import (
	"palletchain/blockchain"
	"palletchain/runtime"
)

type ChainStore interface {

	// Update/Add/Put
	AddBlock(block *blockchain.StoredBlock, receipt *runtime.Receipt) error

	// Getters
	GetBlockByHash(hash blockchain.Hash32) (*blockchain.StoredBlock, error)
	GetBlockByNumber(number uint64) (*blockchain.StoredBlock, error)
	GetHeadBlock() (*blockchain.StoredBlock, error)
	GetReceipt(number uint64) (*runtime.Receipt, error)
	GetChainHeight() (uint64, error)
}
