package apesafe

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
	"github.com/minanew12/badger-multisig/protocols"
)

// voterChoreTokens are snapshotted so the posted proposal shows the
// expected balance deltas.
var voterChoreTokens = []string{"AURA", "AURABAL", "graviAURA", "BADGER", "WETH"}

func newVoterChoresCmd() *cobra.Command {
	var dryRun bool
	var csvDestination string

	cmd := &cobra.Command{
		Use:   "voter-chores",
		Short: "Run the weekly voter multisig chores",
		Long: `Claims Hidden Hands bribes and forwards them to the treasury, harvests
vlAURA rewards, relocks expired locks and locks loose AURA. The whole run is
batched into a single Safe transaction and proposed to the transaction
service.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			safe, err := connectSafe(cmd)
			if err != nil {
				return err
			}

			pk, err := loadPrivateKey()
			if err != nil {
				return err
			}
			safe.SetSigner(greatapesafe.NewPrivateKeySigner(pk))

			if err = runVoterChores(cmd.Context(), safe); err != nil {
				return err
			}

			opts := greatapesafe.DefaultPostOptions()
			opts.Post = !dryRun
			opts.LogName = "voter_chores"
			opts.CSVDestination = csvDestination

			_, err = safe.PostSafeTx(cmd.Context(), opts)

			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview only, do not propose to the transaction service")
	cmd.Flags().StringVar(&csvDestination, "csv", "", "Export the snapshot deltas to this CSV file")

	return cmd
}

func runVoterChores(ctx context.Context, safe *greatapesafe.Safe) error {
	logger := greatapesafe.LoggerFrom(ctx)
	reg := safe.Registry()

	badger, err := protocols.NewBadger(safe)
	if err != nil {
		return err
	}

	tokens, err := resolveTokens(safe, voterChoreTokens)
	if err != nil {
		return err
	}
	if err = safe.TakeSnapshot(ctx, tokens); err != nil {
		return err
	}

	// claim hidden hands bribes and forward them to treasury ops
	bribes, err := badger.FetchBribes(ctx)
	if err != nil {
		return err
	}
	if len(bribes) > 0 {
		if err = badger.ClaimBribes(bribes); err != nil {
			return err
		}

		treasury, walletErr := reg.Wallet("treasury_ops_multisig")
		if walletErr != nil {
			return walletErr
		}
		for _, bribe := range bribes {
			logger.Infof("forwarding %s %s bribe to treasury ops", bribe.Claimable, bribe.Symbol)

			transfer, packErr := bindings.PackTransfer(treasury, bribe.Amount)
			if packErr != nil {
				return packErr
			}
			safe.AddCall(bribe.Token, transfer)
		}
	} else {
		logger.Infof("no hidden hands bribes to claim")
	}

	if err = badger.ClaimVoterRewards(); err != nil {
		return err
	}

	locked, err := badger.VoterLockedBalances(ctx)
	if err != nil {
		return err
	}
	if locked.Unlockable.Sign() > 0 {
		logger.Infof("relocking %s expired vlAURA", locked.Unlockable)
		if err = badger.ProcessExpiredLocks(true); err != nil {
			return err
		}
	}

	if err = badger.WithdrawAllGraviAura(); err != nil {
		return err
	}

	// lock the AURA already sitting loose; the batch's own graviAURA
	// withdrawal lands after estimation, so its proceeds get locked on the
	// next run
	auraAddr, err := reg.Token("AURA")
	if err != nil {
		return err
	}
	aura := bindings.NewERC20(auraAddr, safe.Client())
	balance, err := aura.BalanceOf(&bind.CallOpts{Context: ctx}, safe.Address())
	if err != nil {
		return err
	}
	if balance.Sign() > 0 {
		logger.Infof("locking %s loose AURA", balance)
		if err = badger.LockAura(balance); err != nil {
			return err
		}
	}

	return nil
}

func resolveTokens(safe *greatapesafe.Safe, symbols []string) ([]common.Address, error) {
	tokens := make([]common.Address, 0, len(symbols))
	for _, symbol := range symbols {
		addr, err := safe.Registry().Token(symbol)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, addr)
	}

	return tokens, nil
}
