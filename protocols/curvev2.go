package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// Crypto pools index coins with uint256 instead of int128 and quote in
// mixed decimals via an internal oracle.
const cryptoPoolABI = `[
	{"type":"function","name":"add_liquidity","stateMutability":"nonpayable","inputs":[{"name":"amounts","type":"uint256[2]"},{"name":"min_mint_amount","type":"uint256"}],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"remove_liquidity","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"},{"name":"min_amounts","type":"uint256[2]"}],"outputs":[]},
	{"type":"function","name":"remove_liquidity_one_coin","stateMutability":"nonpayable","inputs":[{"name":"token_amount","type":"uint256"},{"name":"i","type":"uint256"},{"name":"min_amount","type":"uint256"}],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"exchange","stateMutability":"nonpayable","inputs":[{"name":"i","type":"uint256"},{"name":"j","type":"uint256"},{"name":"dx","type":"uint256"},{"name":"min_dy","type":"uint256"}],"outputs":[{"type":"uint256"}]}
]`

var cryptoPoolParsed = bindings.MustParseABI(cryptoPoolABI)

// CurveV2 targets Curve crypto (volatile pair) pools.
type CurveV2 struct {
	safe *greatapesafe.Safe
}

func NewCurveV2(safe *greatapesafe.Safe) (*CurveV2, error) {
	// Crypto pools are addressed directly; nothing chain-specific to pin.
	return &CurveV2{safe: safe}, nil
}

// AddLiquidity deposits both coins of a two-coin crypto pool.
func (c *CurveV2) AddLiquidity(pool common.Address, coins [2]common.Address, amounts [2]*big.Int, minMint *big.Int) error {
	for i, coin := range coins {
		if amounts[i] != nil && amounts[i].Sign() > 0 {
			if err := approve(c.safe, coin, pool, amounts[i]); err != nil {
				return err
			}
		}
	}

	return record(c.safe, pool, cryptoPoolParsed, "add_liquidity", fixed2(amounts[:]), minMint)
}

// RemoveLiquidity burns burnAmount LP tokens for a balanced withdrawal.
func (c *CurveV2) RemoveLiquidity(pool common.Address, burnAmount *big.Int, minAmounts [2]*big.Int) error {
	return record(c.safe, pool, cryptoPoolParsed, "remove_liquidity", burnAmount, fixed2(minAmounts[:]))
}

// RemoveLiquidityOneCoin burns burnAmount LP tokens for coin i only.
func (c *CurveV2) RemoveLiquidityOneCoin(pool common.Address, burnAmount *big.Int, i uint64, minReceived *big.Int) error {
	return record(c.safe, pool, cryptoPoolParsed, "remove_liquidity_one_coin",
		burnAmount, new(big.Int).SetUint64(i), minReceived)
}

// Exchange swaps dx of coin i for at least minDy of coin j.
func (c *CurveV2) Exchange(pool, coinIn common.Address, i, j uint64, dx, minDy *big.Int) error {
	if err := approve(c.safe, coinIn, pool, dx); err != nil {
		return err
	}

	return record(c.safe, pool, cryptoPoolParsed, "exchange",
		new(big.Int).SetUint64(i), new(big.Int).SetUint64(j), dx, minDy)
}
