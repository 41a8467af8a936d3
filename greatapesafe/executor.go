package greatapesafe

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/txservice"
	"github.com/minanew12/badger-multisig/types"
)

// PendingTransactions lists the not-yet-executed service transactions
// queued at or after the Safe's current on-chain nonce.
func (s *Safe) PendingTransactions(ctx context.Context) ([]txservice.MultisigTransaction, error) {
	nonce, err := s.Nonce(ctx)
	if err != nil {
		return nil, err
	}

	return s.service.PendingTransactions(ctx, s.address, nonce)
}

// PendingTxByNonce retrieves a pending service transaction by nonce, or the
// next queued one when nonce is nil.
func (s *Safe) PendingTxByNonce(ctx context.Context, nonce *uint64) (*txservice.MultisigTransaction, error) {
	pending, err := s.PendingTransactions(ctx)
	if err != nil {
		return nil, err
	}

	if nonce == nil {
		if len(pending) == 0 {
			onchain, nonceErr := s.Nonce(ctx)
			if nonceErr != nil {
				return nil, nonceErr
			}

			return nil, NewPendingTxNotFoundError(onchain)
		}

		return &pending[0], nil
	}

	for i := range pending {
		if pending[i].Nonce == *nonce {
			return &pending[i], nil
		}
	}

	return nil, NewPendingTxNotFoundError(*nonce)
}

// SignPending signs a pending service transaction with the configured
// signer and posts the confirmation. The service hash is recomputed locally
// and cross-checked before anything touches the signer.
func (s *Safe) SignPending(ctx context.Context, nonce *uint64) error {
	if s.signer == nil {
		return ErrNoSigner
	}

	mtx, err := s.PendingTxByNonce(ctx, nonce)
	if err != nil {
		return err
	}

	tx, err := mtx.SafeTx(s.version)
	if err != nil {
		return err
	}

	txHash, err := s.TxHash(tx)
	if err != nil {
		return err
	}

	serviceHash := common.HexToHash(mtx.SafeTxHash)
	if txHash != serviceHash {
		return fmt.Errorf("service hash %s does not match locally computed %s, refusing to sign", serviceHash.Hex(), txHash.Hex())
	}

	signature, err := SafeSignature(s.signer, txHash)
	if err != nil {
		return err
	}

	if err = s.service.PostConfirmation(ctx, txHash, signature); err != nil {
		return err
	}

	LoggerFrom(ctx).Infof("posted confirmation for safe tx %s at nonce %d", txHash.Hex(), mtx.Nonce)

	return nil
}

// ExecCalldata builds the execTransaction calldata for a fully signed
// pending transaction. Errors when the service hasn't collected enough
// confirmations.
func (s *Safe) ExecCalldata(mtx *txservice.MultisigTransaction) ([]byte, error) {
	if len(mtx.Confirmations) < mtx.ConfirmationsRequired {
		return nil, NewQuorumNotMetError(len(mtx.Confirmations), mtx.ConfirmationsRequired)
	}

	tx, err := mtx.SafeTx(s.version)
	if err != nil {
		return nil, err
	}

	signatures, err := mtx.SortedSignatures()
	if err != nil {
		return nil, err
	}

	return bindings.PackExecTransaction(
		tx.To,
		tx.Value,
		tx.Data,
		uint8(tx.Operation),
		tx.SafeTxGas,
		tx.BaseGas,
		tx.GasPrice,
		tx.GasToken,
		tx.RefundReceiver,
		signatures,
	)
}

// ExecuteWithPrivateKey executes a fully signed pending transaction (by
// nonce, or the next queued one) with a raw key, and returns the
// transaction hash.
func (s *Safe) ExecuteWithPrivateKey(ctx context.Context, pk *ecdsa.PrivateKey, nonce *uint64) (common.Hash, error) {
	mtx, err := s.PendingTxByNonce(ctx, nonce)
	if err != nil {
		return common.Hash{}, err
	}

	if len(mtx.Confirmations) < mtx.ConfirmationsRequired {
		return common.Hash{}, NewQuorumNotMetError(len(mtx.Confirmations), mtx.ConfirmationsRequired)
	}

	tx, err := mtx.SafeTx(s.version)
	if err != nil {
		return common.Hash{}, err
	}

	signatures, err := mtx.SortedSignatures()
	if err != nil {
		return common.Hash{}, err
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(pk, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	auth.Context = ctx

	execTx, err := s.contract.ExecTransaction(
		auth,
		tx.To,
		tx.Value,
		tx.Data,
		uint8(tx.Operation),
		tx.SafeTxGas,
		tx.BaseGas,
		tx.GasPrice,
		tx.GasToken,
		tx.RefundReceiver,
		signatures,
	)
	if err != nil {
		return common.Hash{}, fmt.Errorf("execTransaction failed: %w", err)
	}

	receipt, err := bind.WaitMined(ctx, s.client, execTx)
	if err != nil {
		return common.Hash{}, err
	}

	LoggerFrom(ctx).Infof("executed safe tx at nonce %d in block %d (%s)", mtx.Nonce, receipt.BlockNumber, execTx.Hash().Hex())

	return execTx.Hash(), nil
}

// ExecuteWithFrame relays the execTransaction of a fully signed pending
// transaction through a local Frame instance.
func (s *Safe) ExecuteWithFrame(ctx context.Context, frame *FrameSigner, nonce *uint64) (common.Hash, error) {
	mtx, err := s.PendingTxByNonce(ctx, nonce)
	if err != nil {
		return common.Hash{}, err
	}

	calldata, err := s.ExecCalldata(mtx)
	if err != nil {
		return common.Hash{}, err
	}

	txHash, err := frame.SendTransaction(ctx, s.address, calldata)
	if err != nil {
		return common.Hash{}, err
	}

	LoggerFrom(ctx).Infof("relayed execTransaction for nonce %d through frame: %s", mtx.Nonce, txHash.Hex())

	return txHash, nil
}

// sortSignaturesBySigner reorders a blob of concatenated 65-byte signatures
// into ascending recovered-signer order, the order checkSignatures walks
// them in.
func sortSignaturesBySigner(txHash common.Hash, signatures []byte) ([]byte, error) {
	if len(signatures)%types.SignatureBytesLength != 0 {
		return nil, fmt.Errorf("invalid signatures length %d", len(signatures))
	}

	type ownedSignature struct {
		signer common.Address
		raw    []byte
	}

	owned := make([]ownedSignature, 0, len(signatures)/types.SignatureBytesLength)
	for off := 0; off < len(signatures); off += types.SignatureBytesLength {
		raw := signatures[off : off+types.SignatureBytesLength]

		sig, err := types.NewSignatureFromBytes(raw)
		if err != nil {
			return nil, err
		}

		// eth_sign signatures (v 31/32) sign the EIP-191 prefixed digest,
		// not the safe tx hash itself
		digest := txHash
		if sig.V >= types.SignatureVOffset+types.SignatureEthSignOffset {
			digest = common.BytesToHash(accounts.TextHash(txHash.Bytes()))
		}

		signer, err := sig.Recover(digest)
		if err != nil {
			return nil, fmt.Errorf("failed to recover signer at offset %d: %w", off, err)
		}

		owned = append(owned, ownedSignature{signer: signer, raw: raw})
	}

	slices.SortFunc(owned, func(a, b ownedSignature) int {
		return bytes.Compare(a.signer.Bytes(), b.signer.Bytes())
	})

	out := make([]byte, 0, len(signatures))
	for _, sig := range owned {
		out = append(out, sig.raw...)
	}

	return out, nil
}

// PostSafeTxManually runs the offline signature-chaining flow: assemble the
// batch without posting, append the previous signer's signature blob, sign
// locally, and either relay the execTransaction through Frame (when the
// configured signer is one) or emit the calldata and the combined blob for
// the next signer.
func (s *Safe) PostSafeTxManually(ctx context.Context, prevSignatures []byte) (*types.SafeTx, error) {
	if s.signer == nil {
		return nil, ErrNoSigner
	}

	if len(prevSignatures)%types.SignatureBytesLength != 0 {
		return nil, fmt.Errorf("invalid previous signatures length %d", len(prevSignatures))
	}

	tx, err := s.PostSafeTx(ctx, PostOptions{Silent: true, Post: false, GasCoef: defaultGasCoef})
	if err != nil {
		return nil, err
	}

	tx.Signatures = prevSignatures

	txHash, err := s.TxHash(tx)
	if err != nil {
		return nil, err
	}

	signature, err := SafeSignature(s.signer, txHash)
	if err != nil {
		return nil, err
	}
	tx.Signatures = append(tx.Signatures, signature...)

	// signers chain in whatever order is convenient; checkSignatures wants
	// ascending signer addresses
	tx.Signatures, err = sortSignaturesBySigner(txHash, tx.Signatures)
	if err != nil {
		return nil, err
	}

	calldata, err := bindings.PackExecTransaction(
		tx.To,
		tx.Value,
		tx.Data,
		uint8(tx.Operation),
		tx.SafeTxGas,
		tx.BaseGas,
		tx.GasPrice,
		tx.GasToken,
		tx.RefundReceiver,
		tx.Signatures,
	)
	if err != nil {
		return nil, err
	}

	logger := LoggerFrom(ctx)
	logger.Infof("destination: %s", s.address.Hex())
	logger.Infof("calldata: %s", hexutil.Encode(calldata))
	logger.Infof("combined signatures for next signer: %s", hexutil.Encode(tx.Signatures))

	if frame, ok := s.signer.(*FrameSigner); ok {
		haveSigners := len(tx.Signatures) / types.SignatureBytesLength
		threshold, thErr := s.Threshold(ctx)
		if thErr != nil {
			return nil, thErr
		}
		if haveSigners >= threshold {
			if _, sendErr := frame.SendTransaction(ctx, s.address, calldata); sendErr != nil {
				return nil, sendErr
			}
		}
	}

	return tx, nil
}
