package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"palletchain/blockchain/store"
	"palletchain/config"
	"palletchain/mocks"
	"palletchain/node"
	"palletchain/runtime"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var blocksPath string

func init() {
	execCmd.Flags().StringVarP(&blocksPath, "blocks", "b", "", "path to a JSON array of blocks")
	_ = execCmd.MarkFlagRequired("blocks")

	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(demoCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Execute a file of blocks on top of the configured genesis and print the state",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := homedir.Expand(blocksPath)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read blocks: %w", err)
		}
		blocks, err := runtime.DecodeBlocks(data)
		if err != nil {
			return err
		}
		return run(cmd.OutOrStdout(), cfg, blocks)
	},
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sample alice/bob/charlie chain and print the state",
	RunE: func(cmd *cobra.Command, args []string) error {
		demo := cfg
		demo.Genesis = mocks.DemoGenesis()
		return run(cmd.OutOrStdout(), demo, mocks.DemoBlocks())
	},
}

// run processes blocks on a fresh node and prints the final state. The state
// is printed even when some blocks fail.
func run(out io.Writer, cfg config.Config, blocks []runtime.Block) error {
	n, err := node.NewFullNode(cfg)
	if err != nil {
		return err
	}
	processErr := n.Processor().ProcessBlocks(blocks)

	var snapshot runtime.StateSnapshot
	if err := n.Processor().View(func(rt *runtime.Runtime, _ store.ChainStore) error {
		snapshot = rt.State()
		return nil
	}); err != nil {
		return multierr.Append(processErr, err)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return err
	}
	return processErr
}
