package apesafe

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List the Safe's pending service transactions",
		Long:  `Lists the not-yet-executed transactions queued on the Safe Transaction Service at or after the current on-chain nonce.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := connectSafe(cmd)
			if err != nil {
				return err
			}

			pending, err := safe.PendingTransactions(cmd.Context())
			if err != nil {
				return err
			}

			if len(pending) == 0 {
				fmt.Println("no pending transactions")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"nonce", "to", "value", "confirmations", "safe_tx_hash"})
			for _, mtx := range pending {
				table.Append([]string{
					fmt.Sprintf("%d", mtx.Nonce),
					mtx.To,
					mtx.Value,
					fmt.Sprintf("%d/%d", len(mtx.Confirmations), mtx.ConfirmationsRequired),
					mtx.SafeTxHash,
				})
			}
			table.Render()

			return nil
		},
	}

	return cmd
}
