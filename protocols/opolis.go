package protocols

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

const opolisStakingABI = `[
	{"type":"function","name":"stake","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"whitelisted","stateMutability":"view","inputs":[{"name":"_member","type":"address"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"stakingToken","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]}
]`

var opolisStakingParsed = bindings.MustParseABI(opolisStakingABI)

// Opolis stakes payroll into the Opolis staking helper on Polygon.
type Opolis struct {
	safe   *greatapesafe.Safe
	helper common.Address
}

func NewOpolis(safe *greatapesafe.Safe) (*Opolis, error) {
	helper, err := safe.Registry().Contract("opolis.staking_helper")
	if err != nil {
		return nil, err
	}

	return &Opolis{safe: safe, helper: helper}, nil
}

// IsWhitelisted reports whether the Safe may stake.
func (o *Opolis) IsWhitelisted(ctx context.Context) (bool, error) {
	bound := bind.NewBoundContract(o.helper, opolisStakingParsed, o.safe.Client(), nil, nil)

	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, "whitelisted", o.safe.Address()); err != nil {
		return false, fmt.Errorf("failed to read opolis whitelist: %w", err)
	}

	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// Stake queues staking amount of the helper's staking token.
func (o *Opolis) Stake(stakingToken common.Address, amount *big.Int) error {
	if err := approve(o.safe, stakingToken, o.helper, amount); err != nil {
		return err
	}

	return record(o.safe, o.helper, opolisStakingParsed, "stake", amount)
}
