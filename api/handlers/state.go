package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"palletchain/blockchain/processing"
	"palletchain/blockchain/store"
	"palletchain/primitives"
	"palletchain/runtime"
)

func State(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var snapshot runtime.StateSnapshot
		if err := bp.View(func(rt *runtime.Runtime, _ store.ChainStore) error {
			snapshot = rt.State()
			return nil
		}); err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		writeJSON(c, http.StatusOK, snapshot)
	}
}

// Account reports balance and nonce. Unknown accounts read as zero.
func Account(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := primitives.AccountID(c.Param("account"))

		var account runtime.AccountState
		if err := bp.View(func(rt *runtime.Runtime, _ store.ChainStore) error {
			account = rt.Account(who)
			return nil
		}); err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		writeJSON(c, http.StatusOK, account)
	}
}

func Claim(bp *processing.BlockProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		content := primitives.Content(c.Param("content"))

		var (
			owner primitives.AccountID
			found bool
		)
		if err := bp.View(func(rt *runtime.Runtime, _ store.ChainStore) error {
			owner, found = rt.Claim(content)
			return nil
		}); err != nil {
			writeError(c, http.StatusInternalServerError, err)
			return
		}
		if !found {
			writeError(c, http.StatusNotFound, fmt.Errorf("no claim for %q", content))
			return
		}
		writeJSON(c, http.StatusOK, runtime.ClaimState{Content: content, Owner: owner})
	}
}
