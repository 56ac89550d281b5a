// Package blockchain holds the records the node keeps about executed blocks.
package blockchain

import (
	"palletchain/runtime"
)

type Hash32 [32]byte

// StoredBlock is an executed block as the chain store keeps it.
type StoredBlock struct {
	Hash           Hash32        `json:"hash"`
	ExtrinsicsRoot Hash32        `json:"extrinsics_root"`
	Block          runtime.Block `json:"-"`
}

// NewStoredBlock hashes block and wraps it for storage.
func NewStoredBlock(block runtime.Block) (*StoredBlock, error) {
	hash, err := HashBlock(block)
	if err != nil {
		return nil, err
	}
	root, err := MerkleExtrinsics(block.Extrinsics)
	if err != nil {
		return nil, err
	}
	return &StoredBlock{Hash: hash, ExtrinsicsRoot: root, Block: block}, nil
}

func (s *StoredBlock) Number() uint64 {
	return uint64(s.Block.Header.BlockNumber)
}
