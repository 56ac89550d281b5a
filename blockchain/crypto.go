package blockchain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"palletchain/runtime"
)

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// HashExtrinsic is the sha256 of the caller and the JSON encoding of the call.
func HashExtrinsic(ext runtime.Extrinsic) (Hash32, error) {
	call, err := runtime.MarshalCall(ext.Call)
	if err != nil {
		return Hash32{}, fmt.Errorf("hash extrinsic: %w", err)
	}
	h := sha256.New()
	h.Write(uint64ToBytes(uint64(len(ext.Caller))))
	h.Write([]byte(ext.Caller))
	h.Write(call)
	var hash Hash32
	copy(hash[:], h.Sum(nil))
	return hash, nil
}

// HashBlock commits to the block number and the extrinsics root.
func HashBlock(block runtime.Block) (Hash32, error) {
	root, err := MerkleExtrinsics(block.Extrinsics)
	if err != nil {
		return Hash32{}, err
	}
	h := sha256.New()
	h.Write(uint64ToBytes(uint64(block.Header.BlockNumber)))
	h.Write(root[:])
	var hash Hash32
	copy(hash[:], h.Sum(nil))
	return hash, nil
}

// MerkleExtrinsics builds a merkle root over the extrinsic hashes, keeping
// their order. An empty list has the zero root.
func MerkleExtrinsics(extrinsics []runtime.Extrinsic) (Hash32, error) {
	if len(extrinsics) == 0 {
		return Hash32{}, nil
	}

	hashes := make([][]byte, len(extrinsics))
	for i, ext := range extrinsics {
		hash, err := HashExtrinsic(ext)
		if err != nil {
			return Hash32{}, fmt.Errorf("extrinsic %d: %w", i, err)
		}
		hashes[i] = hash[:]
	}

	for len(hashes) > 1 {
		// If odd number, duplicate last hash
		if len(hashes)%2 == 1 {
			hashes = append(hashes, hashes[len(hashes)-1])
		}

		newLevel := make([][]byte, 0, len(hashes)/2)
		for i := 0; i < len(hashes); i += 2 {
			h := sha256.New()
			h.Write(hashes[i])
			h.Write(hashes[i+1])
			newLevel = append(newLevel, h.Sum(nil))
		}
		hashes = newLevel
	}

	var root Hash32
	copy(root[:], hashes[0])
	return root, nil
}
