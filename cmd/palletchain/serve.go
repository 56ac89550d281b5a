package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"palletchain/node"
)

var httpAddr string

func init() {
	serveCmd.Flags().StringVar(&httpAddr, "http", "", "HTTP API listen address (overrides the config file)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API of a full node",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !log.IsLevelEnabled(log.DebugLevel) {
			gin.SetMode(gin.ReleaseMode)
		}
		if httpAddr != "" {
			cfg.HTTPAddr = httpAddr
		}

		fullNode, err := node.NewFullNode(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		done := make(chan error, 1)
		go func() { done <- fullNode.Start() }()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			log.Info("Received shutdown signal")
		}
		if err := fullNode.Stop(); err != nil {
			return err
		}
		return <-done
	},
}
