package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Complete the node's block template and submit it",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	hash, err := mine()
	if err != nil {
		return err
	}

	if hash == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to mine")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "block added", hash)
	return nil
}

// mine fetches a block template, fills in the merkle root and hash and posts
// the block back. The difficulty is advisory so there is no nonce search.
func mine() (string, error) {
	var tmpl state.Template
	ok, err := get("/v1/mine", &tmpl)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}

	block := tmpl.Block.Complete()

	var resp struct {
		Status string `json:"status"`
	}
	if err := post("/v1/mine", block, &resp); err != nil {
		return "", err
	}

	return block.Hash, nil
}
