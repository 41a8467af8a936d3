package protocols

import (
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// Sushi is the SushiSwap router (mainnet, Polygon, Arbitrum).
type Sushi struct {
	*ammRouter
}

func NewSushi(safe *greatapesafe.Safe) (*Sushi, error) {
	router, err := newAMMRouter(safe, "sushi.router")
	if err != nil {
		return nil, err
	}

	return &Sushi{ammRouter: router}, nil
}

// SpookySwap is the SpookySwap router on Fantom.
type SpookySwap struct {
	*ammRouter
}

func NewSpookySwap(safe *greatapesafe.Safe) (*SpookySwap, error) {
	router, err := newAMMRouter(safe, "spookyswap.router")
	if err != nil {
		return nil, err
	}

	return &SpookySwap{ammRouter: router}, nil
}

// PancakeswapV2 is the PancakeSwap v2 router on BNB chain.
type PancakeswapV2 struct {
	*ammRouter
}

func NewPancakeswapV2(safe *greatapesafe.Safe) (*PancakeswapV2, error) {
	router, err := newAMMRouter(safe, "pancakeswap_v2.router")
	if err != nil {
		return nil, err
	}

	return &PancakeswapV2{ammRouter: router}, nil
}
