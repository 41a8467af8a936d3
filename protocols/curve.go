package protocols

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// Curve v1 stableswap pools use int128 coin indices and come in 2 and 3
// coin variants, each with its own fixed-array signature.
const curvePool2ABI = `[
	{"type":"function","name":"add_liquidity","stateMutability":"nonpayable","inputs":[{"name":"_amounts","type":"uint256[2]"},{"name":"_min_mint_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"remove_liquidity","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"},{"name":"_min_amounts","type":"uint256[2]"}],"outputs":[]},
	{"type":"function","name":"remove_liquidity_one_coin","stateMutability":"nonpayable","inputs":[{"name":"_token_amount","type":"uint256"},{"name":"i","type":"int128"},{"name":"_min_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"exchange","stateMutability":"nonpayable","inputs":[{"name":"i","type":"int128"},{"name":"j","type":"int128"},{"name":"_dx","type":"uint256"},{"name":"_min_dy","type":"uint256"}],"outputs":[]}
]`

const curvePool3ABI = `[
	{"type":"function","name":"add_liquidity","stateMutability":"nonpayable","inputs":[{"name":"_amounts","type":"uint256[3]"},{"name":"_min_mint_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"remove_liquidity","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"},{"name":"_min_amounts","type":"uint256[3]"}],"outputs":[]}
]`

var (
	curvePool2Parsed = bindings.MustParseABI(curvePool2ABI)
	curvePool3Parsed = bindings.MustParseABI(curvePool3ABI)
)

// Curve provides liquidity operations and swaps against v1 stableswap
// pools. Pool and coin addresses are passed by the caller since pools are
// unbounded; the registry only pins the metaregistry.
type Curve struct {
	safe     *greatapesafe.Safe
	registry common.Address
}

func NewCurve(safe *greatapesafe.Safe) (*Curve, error) {
	registry, err := safe.Registry().Contract("curve.registry")
	if err != nil {
		return nil, err
	}

	return &Curve{safe: safe, registry: registry}, nil
}

func fixed2(amounts []*big.Int) [2]*big.Int {
	var out [2]*big.Int
	for i := range out {
		out[i] = new(big.Int)
		if i < len(amounts) && amounts[i] != nil {
			out[i] = amounts[i]
		}
	}

	return out
}

func fixed3(amounts []*big.Int) [3]*big.Int {
	var out [3]*big.Int
	for i := range out {
		out[i] = new(big.Int)
		if i < len(amounts) && amounts[i] != nil {
			out[i] = amounts[i]
		}
	}

	return out
}

func (c *Curve) poolABIFor(n int) (abi.ABI, error) {
	switch n {
	case 2:
		return curvePool2Parsed, nil
	case 3:
		return curvePool3Parsed, nil
	default:
		return abi.ABI{}, fmt.Errorf("curve: unsupported coin count %d", n)
	}
}

// AddLiquidity deposits amounts of the pool's coins (aligned with coins by
// index, zero to skip) for at least minMint LP tokens.
func (c *Curve) AddLiquidity(pool common.Address, coins []common.Address, amounts []*big.Int, minMint *big.Int) error {
	parsed, err := c.poolABIFor(len(coins))
	if err != nil {
		return err
	}

	for i, coin := range coins {
		if i < len(amounts) && amounts[i] != nil && amounts[i].Sign() > 0 {
			if err := approve(c.safe, coin, pool, amounts[i]); err != nil {
				return err
			}
		}
	}

	switch len(coins) {
	case 2:
		return record(c.safe, pool, parsed, "add_liquidity", fixed2(amounts), minMint)
	default:
		return record(c.safe, pool, parsed, "add_liquidity", fixed3(amounts), minMint)
	}
}

// RemoveLiquidity burns burnAmount LP tokens for a balanced withdrawal of
// all nCoins coins.
func (c *Curve) RemoveLiquidity(pool common.Address, nCoins int, burnAmount *big.Int, minAmounts []*big.Int) error {
	parsed, err := c.poolABIFor(nCoins)
	if err != nil {
		return err
	}

	switch nCoins {
	case 2:
		return record(c.safe, pool, parsed, "remove_liquidity", burnAmount, fixed2(minAmounts))
	default:
		return record(c.safe, pool, parsed, "remove_liquidity", burnAmount, fixed3(minAmounts))
	}
}

// RemoveLiquidityOneCoin burns burnAmount LP tokens for coin i only.
func (c *Curve) RemoveLiquidityOneCoin(pool common.Address, burnAmount *big.Int, i int64, minReceived *big.Int) error {
	return record(c.safe, pool, curvePool2Parsed, "remove_liquidity_one_coin", burnAmount, big.NewInt(i), minReceived)
}

// Exchange swaps dx of coin i for at least minDy of coin j on the pool.
func (c *Curve) Exchange(pool, coinIn common.Address, i, j int64, dx, minDy *big.Int) error {
	if err := approve(c.safe, coinIn, pool, dx); err != nil {
		return err
	}

	return record(c.safe, pool, curvePool2Parsed, "exchange", big.NewInt(i), big.NewInt(j), dx, minDy)
}
