package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errNoBlocks = errors.New("chain has no blocks")

// writeJSON renders v with the same codec used for blocks and receipts.
func writeJSON(c *gin.Context, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

func writeError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func blockNumberParam(c *gin.Context) (uint64, bool) {
	number, err := strconv.ParseUint(c.Param("number"), 10, 32)
	if err != nil {
		writeError(c, http.StatusBadRequest, errors.New("invalid block number"))
		return 0, false
	}
	return number, true
}
