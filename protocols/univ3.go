package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

const uniV3SwapRouterABI = `[
	{"type":"function","name":"exactInput","stateMutability":"payable","inputs":[{"name":"params","type":"tuple","components":[{"name":"path","type":"bytes"},{"name":"recipient","type":"address"},{"name":"deadline","type":"uint256"},{"name":"amountIn","type":"uint256"},{"name":"amountOutMinimum","type":"uint256"}]}],"outputs":[{"type":"uint256"}]}
]`

const uniV3PositionsABI = `[
	{"type":"function","name":"mint","stateMutability":"payable","inputs":[{"name":"params","type":"tuple","components":[{"name":"token0","type":"address"},{"name":"token1","type":"address"},{"name":"fee","type":"uint24"},{"name":"tickLower","type":"int24"},{"name":"tickUpper","type":"int24"},{"name":"amount0Desired","type":"uint256"},{"name":"amount1Desired","type":"uint256"},{"name":"amount0Min","type":"uint256"},{"name":"amount1Min","type":"uint256"},{"name":"recipient","type":"address"},{"name":"deadline","type":"uint256"}]}],"outputs":[{"type":"uint256"},{"type":"uint128"},{"type":"uint256"},{"type":"uint256"}]},
	{"type":"function","name":"collect","stateMutability":"payable","inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenId","type":"uint256"},{"name":"recipient","type":"address"},{"name":"amount0Max","type":"uint128"},{"name":"amount1Max","type":"uint128"}]}],"outputs":[{"type":"uint256"},{"type":"uint256"}]},
	{"type":"function","name":"decreaseLiquidity","stateMutability":"payable","inputs":[{"name":"params","type":"tuple","components":[{"name":"tokenId","type":"uint256"},{"name":"liquidity","type":"uint128"},{"name":"amount0Min","type":"uint256"},{"name":"amount1Min","type":"uint256"},{"name":"deadline","type":"uint256"}]}],"outputs":[{"type":"uint256"},{"type":"uint256"}]}
]`

var (
	uniV3SwapRouterParsed = bindings.MustParseABI(uniV3SwapRouterABI)
	uniV3PositionsParsed  = bindings.MustParseABI(uniV3PositionsABI)
)

// maxUint128 is the amountMax sentinel collect uses for "everything".
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

type exactInputParams struct {
	Path             []byte
	Recipient        common.Address
	Deadline         *big.Int
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

type mintParams struct {
	Token0         common.Address
	Token1         common.Address
	Fee            *big.Int
	TickLower      *big.Int
	TickUpper      *big.Int
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
}

type collectParams struct {
	TokenId    *big.Int
	Recipient  common.Address
	Amount0Max *big.Int
	Amount1Max *big.Int
}

type decreaseLiquidityParams struct {
	TokenId    *big.Int
	Liquidity  *big.Int
	Amount0Min *big.Int
	Amount1Min *big.Int
	Deadline   *big.Int
}

// UniV3 swaps through the v3 swap router and manages concentrated
// liquidity through the positions NFT.
type UniV3 struct {
	safe       *greatapesafe.Safe
	swapRouter common.Address
	positions  common.Address
}

func NewUniV3(safe *greatapesafe.Safe) (*UniV3, error) {
	reg := safe.Registry()

	swapRouter, err := reg.Contract("uni_v3.swap_router")
	if err != nil {
		return nil, err
	}
	positions, err := reg.Contract("uni_v3.positions")
	if err != nil {
		return nil, err
	}

	return &UniV3{safe: safe, swapRouter: swapRouter, positions: positions}, nil
}

// EncodePath packs a v3 multi-hop path: token, 3-byte fee, token, ...
// fees[i] is the fee tier of the tokens[i]/tokens[i+1] pool.
func EncodePath(tokens []common.Address, fees []uint32) ([]byte, error) {
	if len(tokens) < 2 || len(fees) != len(tokens)-1 {
		return nil, ErrEmptyRoute
	}

	path := make([]byte, 0, len(tokens)*common.AddressLength+len(fees)*3)
	for i, token := range tokens {
		path = append(path, token.Bytes()...)
		if i < len(fees) {
			fee := fees[i]
			path = append(path, byte(fee>>16), byte(fee>>8), byte(fee))
		}
	}

	return path, nil
}

// ExactInput swaps amountIn along the packed path for at least minOut,
// delivered to the Safe.
func (u *UniV3) ExactInput(path []byte, amountIn, minOut *big.Int) error {
	if len(path) < common.AddressLength {
		return ErrEmptyRoute
	}

	tokenIn := common.BytesToAddress(path[:common.AddressLength])
	if err := approve(u.safe, tokenIn, u.swapRouter, amountIn); err != nil {
		return err
	}

	return record(u.safe, u.swapRouter, uniV3SwapRouterParsed, "exactInput", exactInputParams{
		Path:             path,
		Recipient:        u.safe.Address(),
		Deadline:         deadline(),
		AmountIn:         amountIn,
		AmountOutMinimum: minOut,
	})
}

// MintPosition opens a new concentrated liquidity position for the Safe.
func (u *UniV3) MintPosition(token0, token1 common.Address, fee uint32, tickLower, tickUpper int64, amount0, amount1, min0, min1 *big.Int) error {
	if err := approve(u.safe, token0, u.positions, amount0); err != nil {
		return err
	}
	if err := approve(u.safe, token1, u.positions, amount1); err != nil {
		return err
	}

	return record(u.safe, u.positions, uniV3PositionsParsed, "mint", mintParams{
		Token0:         token0,
		Token1:         token1,
		Fee:            new(big.Int).SetUint64(uint64(fee)),
		TickLower:      big.NewInt(tickLower),
		TickUpper:      big.NewInt(tickUpper),
		Amount0Desired: amount0,
		Amount1Desired: amount1,
		Amount0Min:     min0,
		Amount1Min:     min1,
		Recipient:      u.safe.Address(),
		Deadline:       deadline(),
	})
}

// Collect sweeps all accrued fees from the position to the Safe.
func (u *UniV3) Collect(tokenID *big.Int) error {
	return record(u.safe, u.positions, uniV3PositionsParsed, "collect", collectParams{
		TokenId:    tokenID,
		Recipient:  u.safe.Address(),
		Amount0Max: maxUint128,
		Amount1Max: maxUint128,
	})
}

// DecreaseLiquidity removes liquidity from the position. The freed tokens
// stay owed on the position until collected.
func (u *UniV3) DecreaseLiquidity(tokenID, liquidity, min0, min1 *big.Int) error {
	return record(u.safe, u.positions, uniV3PositionsParsed, "decreaseLiquidity", decreaseLiquidityParams{
		TokenId:    tokenID,
		Liquidity:  liquidity,
		Amount0Min: min0,
		Amount1Min: min1,
		Deadline:   deadline(),
	})
}
