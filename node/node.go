package node

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"palletchain/api"
	"palletchain/blockchain/processing"
	"palletchain/blockchain/store"
	"palletchain/config"
	"palletchain/runtime"
)

const shutdownTimeout = 5 * time.Second

// FullNode wires the runtime, chain store, block processor and HTTP API
// together.
type FullNode struct {
	config config.Config

	// Core blockchain storage
	store store.ChainStore

	// Serialises block execution against the runtime
	blockProcessor *processing.BlockProcessor

	apiServer *api.Server
	logger    log.FieldLogger
}

// NewFullNode builds a node whose runtime already holds the genesis state.
func NewFullNode(cfg config.Config) (*FullNode, error) {
	logger := log.WithField("pkg", "node")

	rt := runtime.New(cfg.RuntimeConfig())
	if err := rt.ApplyGenesis(cfg.Genesis); err != nil {
		return nil, fmt.Errorf("failed to apply genesis: %w", err)
	}

	chainStore, err := store.NewMemoryChainStore(cfg.ReceiptCache)
	if err != nil {
		return nil, err
	}

	blockProcessor := processing.NewBlockProcessor(rt, chainStore)

	return &FullNode{
		config:         cfg,
		store:          chainStore,
		blockProcessor: blockProcessor,
		apiServer:      api.NewServer(blockProcessor, cfg.HTTPAddr),
		logger:         logger,
	}, nil
}

func (n *FullNode) Processor() *processing.BlockProcessor {
	return n.blockProcessor
}

func (n *FullNode) API() *api.Server {
	return n.apiServer
}

// Start serves the HTTP API and blocks until Stop is called.
func (n *FullNode) Start() error {
	n.logger.WithField("addr", n.config.HTTPAddr).Info("Full node started")
	if err := n.apiServer.Start(); err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the FullNode
func (n *FullNode) Stop() error {
	n.logger.Info("Stopping FullNode...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := n.apiServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop api server: %w", err)
	}

	n.logger.Info("FullNode stopped")
	return nil
}
