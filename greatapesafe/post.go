package greatapesafe

import (
	"context"
	"encoding/json"

	"github.com/minanew12/badger-multisig/txservice"
	"github.com/minanew12/badger-multisig/types"
)

// DefaultOrigin identifies proposals posted by this tooling in the service.
const DefaultOrigin = "badger-multisig"

// PostOptions controls PostSafeTx.
type PostOptions struct {
	// SkipPreview skips gas estimation, and with that also setting
	// safeTxGas.
	SkipPreview bool
	// CallTrace collects debug_traceCall traces during the preview.
	CallTrace bool
	// Silent suppresses printing the SafeTx fields at the end of the run.
	Silent bool
	// Post actually submits the proposal to the transaction service. When
	// false this is a dry run.
	Post bool
	// ReplaceNonce overrides the Safe's on-chain nonce, e.g. to replace a
	// stuck queued transaction.
	ReplaceNonce *uint64
	// LogName, when set, dumps a debug log under logs/.
	LogName string
	// CSVDestination, when set, exports the snapshot deltas as CSV.
	CSVDestination string
	// GasCoef scales the estimated safeTxGas. Zero means the default.
	GasCoef float64
	// Origin labels the proposal in the transaction service.
	Origin string
}

// DefaultPostOptions returns the options used by the chore scripts: preview
// on, post on, default gas coefficient.
func DefaultPostOptions() PostOptions {
	return PostOptions{Post: true, GasCoef: defaultGasCoef}
}

// PostSafeTx assembles the recorded batch into a SafeTx, previews it and
// sets the legacy gas parameter, prints the balance snapshot deltas if a
// snapshot was taken, signs and proposes it to the transaction service.
//
// The batch is drained only on full success; a failed preview or propose
// leaves it intact so the caller can retry.
func (s *Safe) PostSafeTx(ctx context.Context, opts PostOptions) (*types.SafeTx, error) {
	logger := LoggerFrom(ctx)

	nonce := uint64(0)
	if opts.ReplaceNonce != nil {
		nonce = *opts.ReplaceNonce
	} else {
		onchain, err := s.Nonce(ctx)
		if err != nil {
			return nil, err
		}
		nonce = onchain
	}

	tx, err := s.BuildSafeTx(nonce)
	if err != nil {
		return nil, err
	}

	if !opts.SkipPreview {
		preview, previewErr := s.Preview(ctx, opts.CallTrace)
		if previewErr != nil {
			return nil, previewErr
		}

		if gasErr := s.SetSafeTxGas(tx, preview.GasUsed, opts.GasCoef); gasErr != nil {
			return nil, gasErr
		}

		if opts.LogName != "" {
			if dumpErr := s.DumpLog(ctx, tx, preview, opts.LogName); dumpErr != nil {
				logger.Warnf("failed to dump debug log: %v", dumpErr)
			}
		}
	}

	if err = tx.Validate(); err != nil {
		return nil, err
	}

	if !opts.Silent {
		pretty, marshalErr := json.MarshalIndent(tx, "", "  ")
		if marshalErr == nil {
			logger.Infof("safe tx:\n%s", pretty)
		}
	}

	if s.snapshot != nil {
		if err = s.PrintSnapshot(ctx, opts.CSVDestination); err != nil {
			return nil, err
		}
	}

	if opts.Post {
		if err = s.propose(ctx, tx, opts.Origin); err != nil {
			return nil, err
		}
	}

	s.ResetBatch()

	return tx, nil
}

func (s *Safe) propose(ctx context.Context, tx *types.SafeTx, origin string) error {
	if s.signer == nil {
		return ErrNoSigner
	}

	txHash, err := s.TxHash(tx)
	if err != nil {
		return err
	}

	signature, err := SafeSignature(s.signer, txHash)
	if err != nil {
		return err
	}

	sender, err := s.signer.GetAddress()
	if err != nil {
		return err
	}

	if origin == "" {
		origin = DefaultOrigin
	}

	payload := txservice.NewProposePayload(tx, txHash, sender, signature, origin)
	if err = s.service.ProposeTransaction(ctx, s.address, payload); err != nil {
		return err
	}

	LoggerFrom(ctx).Infof("proposed safe tx %s at nonce %d", txHash.Hex(), tx.Nonce)

	return nil
}
