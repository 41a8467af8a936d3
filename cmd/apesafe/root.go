// Package apesafe wires the treasury chores into a CLI. Every command
// connects to a Safe (flag or .env), does its thing against the transaction
// service and exits; long-lived state lives on-chain and in the service.
package apesafe

import (
	"github.com/spf13/cobra"
)

func BuildRootCmd() *cobra.Command {
	var (
		safeAddress string
		rpcURL      string
	)

	cmd := cobra.Command{
		Use:   "apesafe",
		Short: "Badger treasury multisig chores",
		Long:  `Batch, preview, propose, sign and execute Gnosis Safe transactions for the Badger treasury.`,
	}

	cmd.PersistentFlags().StringVar(&safeAddress, "safe", "", "Safe address (falls back to SAFE_ADDRESS in .env)")
	cmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "RPC endpoint (falls back to RPC_URL in .env)")

	cmd.AddCommand(newPendingCmd())
	cmd.AddCommand(newSignPrivateKeyCmd())
	cmd.AddCommand(newSignLedgerCmd())
	cmd.AddCommand(newSignFrameCmd())
	cmd.AddCommand(newExecuteCmd())
	cmd.AddCommand(newVoterChoresCmd())

	return &cmd
}
