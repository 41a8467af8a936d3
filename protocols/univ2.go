package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// The Uniswap v2 router ABI is shared by every fork we touch (Sushi,
// SpookySwap, PancakeSwap).
const uniV2RouterABI = `[
	{"type":"function","name":"swapExactTokensForTokens","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"type":"uint256[]"}]},
	{"type":"function","name":"addLiquidity","stateMutability":"nonpayable","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"amountADesired","type":"uint256"},{"name":"amountBDesired","type":"uint256"},{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"type":"uint256"},{"type":"uint256"},{"type":"uint256"}]},
	{"type":"function","name":"removeLiquidity","stateMutability":"nonpayable","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"liquidity","type":"uint256"},{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"type":"uint256"},{"type":"uint256"}]}
]`

var uniV2RouterParsed = bindings.MustParseABI(uniV2RouterABI)

// ammRouter is the shared surface of the Uniswap v2 router forks. Each
// adapter pins its own router address via a registry key.
type ammRouter struct {
	safe   *greatapesafe.Safe
	router common.Address
}

func newAMMRouter(safe *greatapesafe.Safe, contractKey string) (*ammRouter, error) {
	router, err := safe.Registry().Contract(contractKey)
	if err != nil {
		return nil, err
	}

	return &ammRouter{safe: safe, router: router}, nil
}

func (r *ammRouter) Router() common.Address {
	return r.router
}

// SwapExactTokensForTokens swaps amountIn of path[0] along path for at
// least minOut of the final token, delivered to the Safe.
func (r *ammRouter) SwapExactTokensForTokens(amountIn, minOut *big.Int, path []common.Address) error {
	if len(path) < 2 {
		return ErrEmptyRoute
	}

	if err := approve(r.safe, path[0], r.router, amountIn); err != nil {
		return err
	}

	return record(r.safe, r.router, uniV2RouterParsed, "swapExactTokensForTokens",
		amountIn, minOut, path, r.safe.Address(), deadline())
}

// AddLiquidity supplies both sides of the tokenA/tokenB pair.
func (r *ammRouter) AddLiquidity(tokenA, tokenB common.Address, amountA, amountB, minA, minB *big.Int) error {
	if err := approve(r.safe, tokenA, r.router, amountA); err != nil {
		return err
	}
	if err := approve(r.safe, tokenB, r.router, amountB); err != nil {
		return err
	}

	return record(r.safe, r.router, uniV2RouterParsed, "addLiquidity",
		tokenA, tokenB, amountA, amountB, minA, minB, r.safe.Address(), deadline())
}

// RemoveLiquidity burns liquidity of the pair's LP token back into both
// tokens.
func (r *ammRouter) RemoveLiquidity(tokenA, tokenB, lpToken common.Address, liquidity, minA, minB *big.Int) error {
	if err := approve(r.safe, lpToken, r.router, liquidity); err != nil {
		return err
	}

	return record(r.safe, r.router, uniV2RouterParsed, "removeLiquidity",
		tokenA, tokenB, liquidity, minA, minB, r.safe.Address(), deadline())
}

// UniV2 is the canonical Uniswap v2 router on mainnet.
type UniV2 struct {
	*ammRouter
}

func NewUniV2(safe *greatapesafe.Safe) (*UniV2, error) {
	router, err := newAMMRouter(safe, "uni_v2.router")
	if err != nil {
		return nil, err
	}

	return &UniV2{ammRouter: router}, nil
}
