package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

const cTokenABI = `[
	{"type":"function","name":"mint","stateMutability":"nonpayable","inputs":[{"name":"mintAmount","type":"uint256"}],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"redeem","stateMutability":"nonpayable","inputs":[{"name":"redeemTokens","type":"uint256"}],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"redeemUnderlying","stateMutability":"nonpayable","inputs":[{"name":"redeemAmount","type":"uint256"}],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"underlying","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]}
]`

const comptrollerABI = `[
	{"type":"function","name":"claimComp","stateMutability":"nonpayable","inputs":[{"name":"holder","type":"address"}],"outputs":[]},
	{"type":"function","name":"enterMarkets","stateMutability":"nonpayable","inputs":[{"name":"cTokens","type":"address[]"}],"outputs":[{"type":"uint256[]"}]}
]`

var (
	cTokenParsed      = bindings.MustParseABI(cTokenABI)
	comptrollerParsed = bindings.MustParseABI(comptrollerABI)
)

// Compound lends through cTokens and claims COMP from the comptroller.
type Compound struct {
	safe        *greatapesafe.Safe
	comptroller common.Address
}

func NewCompound(safe *greatapesafe.Safe) (*Compound, error) {
	comptroller, err := safe.Registry().Contract("compound.comptroller")
	if err != nil {
		return nil, err
	}

	return &Compound{safe: safe, comptroller: comptroller}, nil
}

// Mint supplies amount of the cToken's underlying.
func (c *Compound) Mint(cToken, underlying common.Address, amount *big.Int) error {
	if err := approve(c.safe, underlying, cToken, amount); err != nil {
		return err
	}

	return record(c.safe, cToken, cTokenParsed, "mint", amount)
}

// Redeem burns cTokenAmount of cTokens for the underlying.
func (c *Compound) Redeem(cToken common.Address, cTokenAmount *big.Int) error {
	return record(c.safe, cToken, cTokenParsed, "redeem", cTokenAmount)
}

// RedeemUnderlying withdraws an exact amount of the underlying.
func (c *Compound) RedeemUnderlying(cToken common.Address, amount *big.Int) error {
	return record(c.safe, cToken, cTokenParsed, "redeemUnderlying", amount)
}

// ClaimComp claims all accrued COMP for the Safe.
func (c *Compound) ClaimComp() error {
	return record(c.safe, c.comptroller, comptrollerParsed, "claimComp", c.safe.Address())
}
