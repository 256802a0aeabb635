package cmd

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	RunE:  balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		return err
	}

	address := signature.PublicKeyToAddress(privateKey.PublicKey)

	var bal balance
	if _, err := get("/v1/balance/"+address, &bal); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d\n", bal.Name, bal.Address, bal.Balance)
	return nil
}
