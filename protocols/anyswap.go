package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

const anyswapRouterABI = `[
	{"type":"function","name":"anySwapOutUnderlying","stateMutability":"nonpayable","inputs":[{"name":"token","type":"address"},{"name":"to","type":"address"},{"name":"amount","type":"uint256"},{"name":"toChainID","type":"uint256"}],"outputs":[]}
]`

var anyswapRouterParsed = bindings.MustParseABI(anyswapRouterABI)

// Anyswap bridges tokens to another chain via the multichain router.
type Anyswap struct {
	safe   *greatapesafe.Safe
	router common.Address
}

func NewAnyswap(safe *greatapesafe.Safe) (*Anyswap, error) {
	router, err := safe.Registry().Contract("anyswap.router")
	if err != nil {
		return nil, err
	}

	return &Anyswap{safe: safe, router: router}, nil
}

// BridgeOut sends amount of the anyToken's underlying to the given
// recipient on the destination chain. anyToken is the router-side wrapper,
// underlying the token actually pulled from the Safe.
func (a *Anyswap) BridgeOut(anyToken, underlying, to common.Address, amount *big.Int, toChainID uint64) error {
	if err := approve(a.safe, underlying, a.router, amount); err != nil {
		return err
	}

	return record(a.safe, a.router, anyswapRouterParsed, "anySwapOutUnderlying",
		anyToken, to, amount, new(big.Int).SetUint64(toChainID))
}
