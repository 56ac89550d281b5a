package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"palletchain/config"
	"palletchain/logging"
)

var (
	configPath string
	logLevel   string

	// cfg is resolved from --config before any subcommand runs.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:           "palletchain",
	Short:         "A minimal pallet-based state transition runtime",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.DefaultConfig()
		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		}

		level := logLevel
		if level == "" {
			level = cfg.LogLevel
		} else if _, ok := logging.ParseLevel(level); !ok {
			return fmt.Errorf("unknown log level %q", level)
		}
		logging.ConfigureRuntime(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides the config file)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("palletchain failed")
		os.Exit(1)
	}
}
