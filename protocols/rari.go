package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/greatapesafe"
)

// Rari Fuse pools are cToken-compatible, so the Compound ABIs apply
// unchanged; only the comptroller differs per pool.
type Rari struct {
	safe        *greatapesafe.Safe
	comptroller common.Address
}

func NewRari(safe *greatapesafe.Safe) (*Rari, error) {
	comptroller, err := safe.Registry().Contract("rari.comptroller")
	if err != nil {
		return nil, err
	}

	return &Rari{safe: safe, comptroller: comptroller}, nil
}

// EnterMarkets enables the given fTokens as collateral.
func (r *Rari) EnterMarkets(fTokens []common.Address) error {
	return record(r.safe, r.comptroller, comptrollerParsed, "enterMarkets", fTokens)
}

// Lend supplies amount of the fToken's underlying to the Fuse pool.
func (r *Rari) Lend(fToken, underlying common.Address, amount *big.Int) error {
	if err := approve(r.safe, underlying, fToken, amount); err != nil {
		return err
	}

	return record(r.safe, fToken, cTokenParsed, "mint", amount)
}

// WithdrawUnderlying redeems an exact amount of the underlying from the
// Fuse pool.
func (r *Rari) WithdrawUnderlying(fToken common.Address, amount *big.Int) error {
	return record(r.safe, fToken, cTokenParsed, "redeemUnderlying", amount)
}
