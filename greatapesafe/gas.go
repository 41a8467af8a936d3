package greatapesafe

import (
	"github.com/minanew12/badger-multisig/types"
)

const (
	// execOverheadGas covers the Safe's own execTransaction overhead
	// (signature checks, storage reads) on top of the inner call.
	execOverheadGas = 35_000

	// defaultGasCoef pads the estimate; previews run against latest state
	// while execution happens later.
	defaultGasCoef = 1.5
)

// SetSafeTxGas sets the transaction's safeTxGas from a previewed gas usage.
//
// safeTxGas is a hack for getting a correct gas estimation in the end user
// wallet's UI, only needed on Safe versions before v1.3.0. Newer Safes get
// zero. gasUsed is padded for the EIP-150 63/64 rule and the refund
// bookkeeping the contract performs after the inner call.
//
// Setting the gas changes the EIP-712 hash, so any previously collected
// signatures are dropped.
func (s *Safe) SetSafeTxGas(tx *types.SafeTx, gasUsed uint64, coef float64) error {
	required, err := tx.SafeVersion.RequiresSafeTxGas()
	if err != nil {
		return err
	}

	if !required {
		tx.SafeTxGas.SetUint64(0)
		return nil
	}

	if coef <= 0 {
		coef = defaultGasCoef
	}

	padded := max(gasUsed*64/63, gasUsed+2_500) + 500
	tx.SafeTxGas.SetUint64(execOverheadGas + uint64(coef*float64(padded)))
	tx.InvalidateSignatures()

	return nil
}
