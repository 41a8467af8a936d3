package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// Solidly routes carry a stable flag per hop, picking between the volatile
// and stable-correlated curve for the pair.
const solidlyRouterABI = `[
	{"type":"function","name":"swapExactTokensForTokens","stateMutability":"nonpayable","inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"routes","type":"tuple[]","components":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"stable","type":"bool"}]},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"type":"uint256[]"}]},
	{"type":"function","name":"addLiquidity","stateMutability":"nonpayable","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"stable","type":"bool"},{"name":"amountADesired","type":"uint256"},{"name":"amountBDesired","type":"uint256"},{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"type":"uint256"},{"type":"uint256"},{"type":"uint256"}]},
	{"type":"function","name":"removeLiquidity","stateMutability":"nonpayable","inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"},{"name":"stable","type":"bool"},{"name":"liquidity","type":"uint256"},{"name":"amountAMin","type":"uint256"},{"name":"amountBMin","type":"uint256"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"outputs":[{"type":"uint256"},{"type":"uint256"}]}
]`

var solidlyRouterParsed = bindings.MustParseABI(solidlyRouterABI)

// SolidlyRoute is one hop of a Solidly swap path.
type SolidlyRoute struct {
	From   common.Address
	To     common.Address
	Stable bool
}

// Solidly is the Solidly router on Fantom.
type Solidly struct {
	safe   *greatapesafe.Safe
	router common.Address
}

func NewSolidly(safe *greatapesafe.Safe) (*Solidly, error) {
	router, err := safe.Registry().Contract("solidly.router")
	if err != nil {
		return nil, err
	}

	return &Solidly{safe: safe, router: router}, nil
}

// SwapExactTokensForTokens swaps amountIn of the first route's from-token
// along routes for at least minOut, delivered to the Safe.
func (s *Solidly) SwapExactTokensForTokens(amountIn, minOut *big.Int, routes []SolidlyRoute) error {
	if len(routes) == 0 {
		return ErrEmptyRoute
	}

	if err := approve(s.safe, routes[0].From, s.router, amountIn); err != nil {
		return err
	}

	return record(s.safe, s.router, solidlyRouterParsed, "swapExactTokensForTokens",
		amountIn, minOut, routes, s.safe.Address(), deadline())
}

// AddLiquidity supplies both sides of the pair on the given curve type.
func (s *Solidly) AddLiquidity(tokenA, tokenB common.Address, stable bool, amountA, amountB, minA, minB *big.Int) error {
	if err := approve(s.safe, tokenA, s.router, amountA); err != nil {
		return err
	}
	if err := approve(s.safe, tokenB, s.router, amountB); err != nil {
		return err
	}

	return record(s.safe, s.router, solidlyRouterParsed, "addLiquidity",
		tokenA, tokenB, stable, amountA, amountB, minA, minB, s.safe.Address(), deadline())
}

// RemoveLiquidity burns liquidity of the pair's LP token back into both
// tokens.
func (s *Solidly) RemoveLiquidity(tokenA, tokenB, lpToken common.Address, stable bool, liquidity, minA, minB *big.Int) error {
	if err := approve(s.safe, lpToken, s.router, liquidity); err != nil {
		return err
	}

	return record(s.safe, s.router, solidlyRouterParsed, "removeLiquidity",
		tokenA, tokenB, stable, liquidity, minA, minB, s.safe.Address(), deadline())
}
