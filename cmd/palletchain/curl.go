package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"palletchain/blockchain"
	"palletchain/mocks"
	"palletchain/runtime"
)

var (
	curlDir  string
	curlBase string
)

func init() {
	curlCmd.Flags().StringVarP(&curlDir, "out", "o", "curl", "directory to write the scripts to")
	curlCmd.Flags().StringVar(&curlBase, "url", "http://localhost:8372", "base URL of the node")
	rootCmd.AddCommand(curlCmd)
}

var curlCmd = &cobra.Command{
	Use:   "curl",
	Short: "Generate curl scripts that post the demo blocks to a node",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := homedir.Expand(curlDir)
		if err != nil {
			return err
		}
		files, err := writeCurlScripts(dir, curlBase, mocks.DemoBlocks())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, f := range files {
			fmt.Fprintf(out, "Generated: %s\n", f)
		}
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  1. Start a node with the demo genesis: palletchain serve --config <file>")
		fmt.Fprintf(out, "  2. Run all sequentially: %s\n", filepath.Join(dir, "post_all_blocks.sh"))
		return nil
	},
}

// writeCurlScripts writes one post script per block plus a script that posts
// them all in order, and returns the written paths.
func writeCurlScripts(dir, baseURL string, blocks []runtime.Block) ([]string, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	var written []string

	for _, block := range blocks {
		number := block.Header.BlockNumber
		data, err := runtime.EncodeBlock(block)
		if err != nil {
			return written, fmt.Errorf("encode block %d: %w", number, err)
		}
		hash, err := blockchain.HashBlock(block)
		if err != nil {
			return written, fmt.Errorf("hash block %d: %w", number, err)
		}

		script := fmt.Sprintf(`#!/bin/bash
echo "=== POST /api/blocks - Block %d ==="
echo "Block hash: %x"
echo ""

curl -X POST %s/api/blocks \
  -H "Content-Type: application/json" \
  -d '%s' \
  --max-time 2 \
  --connect-timeout 2 \
  --fail-with-body \
  | jq '.' 2>/dev/null || cat
echo -e "\n"
`, number, hash, baseURL, strings.ReplaceAll(string(data), "'", `'\''`))

		filename := filepath.Join(dir, fmt.Sprintf("post_block_%d.sh", number))
		if err := writeScript(filename, script); err != nil {
			return written, err
		}
		written = append(written, filename)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `#!/bin/bash
echo "=== Sequential Block Submission ==="

if ! curl -s --connect-timeout 2 --max-time 2 %s/api/chain/height > /dev/null; then
    echo "Node not responding on %s"
    exit 1
fi

`, baseURL, baseURL)
	for _, block := range blocks {
		n := block.Header.BlockNumber
		fmt.Fprintf(&b, "echo \"Submitting block %d...\"\n\"$(dirname \"$0\")/post_block_%d.sh\" || echo \"Block %d failed, continuing...\"\n\n", n, n, n)
	}
	fmt.Fprintf(&b, `echo "Done. State:"
curl -s --connect-timeout 2 --max-time 2 %s/api/state | jq '.' 2>/dev/null || cat
echo ""
`, baseURL)

	filename := filepath.Join(dir, "post_all_blocks.sh")
	if err := writeScript(filename, b.String()); err != nil {
		return written, err
	}
	return append(written, filename), nil
}

func writeScript(filename, content string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0o755)
}
