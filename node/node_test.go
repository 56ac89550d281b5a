package node

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletchain/config"
	"palletchain/logging"
	"palletchain/mocks"
	"palletchain/primitives"
	"palletchain/runtime"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logging.ConfigureTests()
	os.Exit(m.Run())
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestFullNodeCreation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Genesis = mocks.DemoGenesis()

	n, err := NewFullNode(cfg)
	require.NoError(t, err)
	require.NotNil(t, n.Processor())
	require.NotNil(t, n.API())

	require.NoError(t, n.Processor().ProcessBlocks(mocks.DemoBlocks()))
	height, err := n.store.GetChainHeight()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), height)
}

func TestFullNodeRejectsInvalidGenesis(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxBalance = primitives.NewBalance(10)
	cfg.Genesis = mocks.DemoGenesis()

	_, err := NewFullNode(cfg)
	assert.Error(t, err)
}

func TestFullNodeRejectsBadReceiptCache(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ReceiptCache = 0

	_, err := NewFullNode(cfg)
	assert.Error(t, err)
}

func TestFullNodeHTTPAPI(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HTTPAddr = freeAddr(t)
	cfg.Genesis = mocks.DemoGenesis()

	n, err := NewFullNode(cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- n.Start() }()

	base := fmt.Sprintf("http://%s", cfg.HTTPAddr)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/api/chain/height")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	body, err := runtime.EncodeBlock(mocks.DemoBlocks()[0])
	require.NoError(t, err)
	resp, err := http.Post(base+"/api/blocks", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, n.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("node did not stop")
	}
}
