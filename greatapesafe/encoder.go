package greatapesafe

import (
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	abiUtils "github.com/minanew12/badger-multisig/internal/utils/abi"
	"github.com/minanew12/badger-multisig/types"
)

var (
	// domainSeparatorTypehash is the EIP-712 domain typehash used by Safe
	// contracts from v1.3.0 on, which bind signatures to a chain id.
	//
	// https://github.com/safe-global/safe-smart-account/blob/main/contracts/Safe.sol
	domainSeparatorTypehash = crypto.Keccak256Hash([]byte("EIP712Domain(uint256 chainId,address verifyingContract)"))

	// domainSeparatorLegacyTypehash is the pre-v1.3.0 domain typehash,
	// without the chain id.
	domainSeparatorLegacyTypehash = crypto.Keccak256Hash([]byte("EIP712Domain(address verifyingContract)"))

	// safeTxTypehash covers every field of a Safe transaction; changing any
	// of them (gas included) invalidates collected signatures.
	safeTxTypehash = crypto.Keccak256Hash([]byte("SafeTx(address to,uint256 value,bytes data,uint8 operation,uint256 safeTxGas,uint256 baseGas,uint256 gasPrice,address gasToken,address refundReceiver,uint256 nonce)"))
)

// DomainSeparator computes the EIP-712 domain separator for a Safe. The
// legacy (pre-1.3.0) layout omits the chain id.
func DomainSeparator(version types.Version, chainID uint64, safe common.Address) (common.Hash, error) {
	legacy, err := version.RequiresSafeTxGas()
	if err != nil {
		return common.Hash{}, err
	}

	if legacy {
		encoded, encErr := abiUtils.ABIEncode(
			`[{"type":"bytes32"},{"type":"address"}]`,
			domainSeparatorLegacyTypehash, safe,
		)
		if encErr != nil {
			return common.Hash{}, encErr
		}

		return crypto.Keccak256Hash(encoded), nil
	}

	encoded, err := abiUtils.ABIEncode(
		`[{"type":"bytes32"},{"type":"uint256"},{"type":"address"}]`,
		domainSeparatorTypehash, new(big.Int).SetUint64(chainID), safe,
	)
	if err != nil {
		return common.Hash{}, err
	}

	return crypto.Keccak256Hash(encoded), nil
}

// SafeTxStructHash computes the EIP-712 struct hash of a Safe transaction.
func SafeTxStructHash(tx *types.SafeTx) (common.Hash, error) {
	encoded, err := abiUtils.ABIEncode(
		`[{"type":"bytes32"},{"type":"address"},{"type":"uint256"},{"type":"bytes32"},{"type":"uint8"},{"type":"uint256"},{"type":"uint256"},{"type":"uint256"},{"type":"address"},{"type":"address"},{"type":"uint256"}]`,
		safeTxTypehash,
		tx.To,
		tx.Value,
		crypto.Keccak256Hash(tx.Data),
		uint8(tx.Operation),
		tx.SafeTxGas,
		tx.BaseGas,
		tx.GasPrice,
		tx.GasToken,
		tx.RefundReceiver,
		new(big.Int).SetUint64(tx.Nonce),
	)
	if err != nil {
		return common.Hash{}, err
	}

	return crypto.Keccak256Hash(encoded), nil
}

// SafeTxHash computes the hash signers approve:
//
//	keccak256(0x19 || 0x01 || domainSeparator || structHash)
func SafeTxHash(tx *types.SafeTx, chainID uint64) (common.Hash, error) {
	domain, err := DomainSeparator(tx.SafeVersion, chainID, tx.Safe)
	if err != nil {
		return common.Hash{}, err
	}

	structHash, err := SafeTxStructHash(tx)
	if err != nil {
		return common.Hash{}, err
	}

	payload := slices.Concat([]byte{0x19, 0x01}, domain.Bytes(), structHash.Bytes())

	return crypto.Keccak256Hash(payload), nil
}

// TxHash computes the signing hash of a SafeTx against this Safe's chain.
func (s *Safe) TxHash(tx *types.SafeTx) (common.Hash, error) {
	return SafeTxHash(tx, s.chainID)
}
