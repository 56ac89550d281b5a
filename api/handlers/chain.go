package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"palletchain/blockchain"
	"palletchain/blockchain/processing"
	"palletchain/blockchain/store"
	"palletchain/runtime"
)

func ChainHeight(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var height uint64
		err := bp.View(func(_ *runtime.Runtime, chain store.ChainStore) error {
			var err error
			height, err = chain.GetChainHeight()
			return err
		})
		if err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"height": height})
	}
}

func ChainHead(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var head *blockchain.StoredBlock
		err := bp.View(func(_ *runtime.Runtime, chain store.ChainStore) error {
			var err error
			head, err = chain.GetHeadBlock()
			return err
		})
		if err == nil && head == nil {
			err = errNoBlocks
		}
		if err != nil {
			writeError(c, statusFor(err), err)
			return
		}

		resp, err := newBlockResponse(head)
		if err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		writeJSON(c, http.StatusOK, resp)
	}
}
