package apesafe

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minanew12/badger-multisig/greatapesafe"
)

func newExecuteCmd() *cobra.Command {
	var useFrame bool
	var frameURL string

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a fully signed pending transaction",
		Long:  `Submits the execTransaction for a pending transaction that has reached quorum, either with the .env private key or relayed through a local Frame instance.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := connectSafe(cmd)
			if err != nil {
				return err
			}

			nonce := nonceFlag(cmd)

			if useFrame {
				frame, frameErr := greatapesafe.NewFrameSigner(cmd.Context(), frameURL)
				if frameErr != nil {
					return frameErr
				}

				txHash, execErr := safe.ExecuteWithFrame(cmd.Context(), frame, nonce)
				if execErr != nil {
					return execErr
				}

				fmt.Printf("relayed: %s\n", txHash.Hex())

				return nil
			}

			pk, err := loadPrivateKey()
			if err != nil {
				return err
			}

			txHash, err := safe.ExecuteWithPrivateKey(cmd.Context(), pk, nonce)
			if err != nil {
				return err
			}

			fmt.Printf("executed: %s\n", txHash.Hex())

			return nil
		},
	}

	cmd.Flags().Uint64("nonce", 0, "Nonce of the pending transaction to execute (default: next queued)")
	cmd.Flags().BoolVar(&useFrame, "use-frame", false, "Relay the execution through Frame instead of the .env private key")
	cmd.Flags().StringVar(&frameURL, "frame", greatapesafe.DefaultFrameRPC, "Frame RPC endpoint")

	return cmd
}
