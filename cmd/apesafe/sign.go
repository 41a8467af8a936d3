package apesafe

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/spf13/cobra"

	"github.com/minanew12/badger-multisig/greatapesafe"
)

func newSignPrivateKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign-raw-private-key",
		Short: "Sign a pending transaction with a raw private key",
		Long:  `Configure a private key in a .env file (using the PRIVATE_KEY var) and confirm a pending Safe transaction with it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := connectSafe(cmd)
			if err != nil {
				return err
			}

			pk, err := loadPrivateKey()
			if err != nil {
				return err
			}

			return signPending(cmd.Context(), safe, greatapesafe.NewPrivateKeySigner(pk), nonceFlag(cmd))
		},
	}

	cmd.Flags().Uint64("nonce", 0, "Nonce of the pending transaction to sign (default: next queued)")

	return cmd
}

func newSignLedgerCmd() *cobra.Command {
	var derivationPath string

	cmd := &cobra.Command{
		Use:   "sign-ledger",
		Short: "Sign a pending transaction with a ledger",
		Long:  ``,
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := connectSafe(cmd)
			if err != nil {
				return err
			}

			path, err := accounts.ParseDerivationPath(derivationPath)
			if err != nil {
				return fmt.Errorf("failed to parse derivation path: %w", err)
			}

			return signPending(cmd.Context(), safe, greatapesafe.NewLedgerSigner(path), nonceFlag(cmd))
		},
	}

	cmd.Flags().Uint64("nonce", 0, "Nonce of the pending transaction to sign (default: next queued)")
	cmd.Flags().StringVar(&derivationPath, "derivationPath", "m/44'/60'/0'/0/0", "The derivation path for the ledger")

	return cmd
}

func newSignFrameCmd() *cobra.Command {
	var frameURL string

	cmd := &cobra.Command{
		Use:   "sign-frame",
		Short: "Sign a pending transaction through a local Frame instance",
		Long:  `Frame fronts the hardware wallet; the device prompts for approval of the personal_sign.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := connectSafe(cmd)
			if err != nil {
				return err
			}

			frame, err := greatapesafe.NewFrameSigner(cmd.Context(), frameURL)
			if err != nil {
				return err
			}

			return signPending(cmd.Context(), safe, frame, nonceFlag(cmd))
		},
	}

	cmd.Flags().Uint64("nonce", 0, "Nonce of the pending transaction to sign (default: next queued)")
	cmd.Flags().StringVar(&frameURL, "frame", greatapesafe.DefaultFrameRPC, "Frame RPC endpoint")

	return cmd
}
