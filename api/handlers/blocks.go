package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"palletchain/blockchain"
	"palletchain/blockchain/processing"
	"palletchain/blockchain/store"
	"palletchain/runtime"
)

type blockResponse struct {
	Number         uint64              `json:"number"`
	Hash           string              `json:"hash"`
	ExtrinsicsRoot string              `json:"extrinsics_root"`
	Block          jsoniter.RawMessage `json:"block"`
}

func newBlockResponse(stored *blockchain.StoredBlock) (*blockResponse, error) {
	encoded, err := runtime.EncodeBlock(stored.Block)
	if err != nil {
		return nil, err
	}
	return &blockResponse{
		Number:         stored.Number(),
		Hash:           fmt.Sprintf("%x", stored.Hash),
		ExtrinsicsRoot: fmt.Sprintf("%x", stored.ExtrinsicsRoot),
		Block:          encoded,
	}, nil
}

// PostBlock decodes a block and hands it to the processor. Blocks ahead of
// the chain are accepted as pending.
func PostBlock(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}

		block, err := runtime.DecodeBlock(body)
		if err != nil {
			writeError(c, http.StatusBadRequest, fmt.Errorf("invalid block: %w", err))
			return
		}

		pending, err := bp.AcceptBlock(block)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}

		hash, err := blockchain.HashBlock(block)
		if err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}

		status, message := http.StatusCreated, "Block added to chain"
		if pending {
			status, message = http.StatusAccepted, "Block is pending"
		}
		writeJSON(c, status, gin.H{
			"status":  "success",
			"number":  block.Header.BlockNumber,
			"hash":    fmt.Sprintf("%x", hash),
			"message": message,
		})
	}
}

func GetBlock(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, ok := blockNumberParam(c)
		if !ok {
			return
		}

		var stored *blockchain.StoredBlock
		err := bp.View(func(_ *runtime.Runtime, chain store.ChainStore) error {
			var err error
			stored, err = chain.GetBlockByNumber(number)
			return err
		})
		if err != nil {
			writeError(c, statusFor(err), err)
			return
		}

		resp, err := newBlockResponse(stored)
		if err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		writeJSON(c, http.StatusOK, resp)
	}
}

func GetReceipt(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		number, ok := blockNumberParam(c)
		if !ok {
			return
		}

		var receipt *runtime.Receipt
		err := bp.View(func(_ *runtime.Runtime, chain store.ChainStore) error {
			var err error
			receipt, err = chain.GetReceipt(number)
			return err
		})
		if err != nil {
			writeError(c, statusFor(err), err)
			return
		}
		writeJSON(c, http.StatusOK, receipt)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrBlockNotFound), errors.Is(err, store.ErrReceiptNotFound), errors.Is(err, errNoBlocks):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
