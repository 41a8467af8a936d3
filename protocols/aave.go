package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

const lendingPoolABI = `[
	{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"onBehalfOf","type":"address"},{"name":"referralCode","type":"uint16"}],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"to","type":"address"}],"outputs":[{"type":"uint256"}]}
]`

const stakedAaveABI = `[
	{"type":"function","name":"stake","stateMutability":"nonpayable","inputs":[{"name":"onBehalfOf","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"redeem","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"cooldown","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"claimRewards","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]}
]`

const incentivesControllerABI = `[
	{"type":"function","name":"claimRewards","stateMutability":"nonpayable","inputs":[{"name":"assets","type":"address[]"},{"name":"amount","type":"uint256"},{"name":"to","type":"address"}],"outputs":[{"type":"uint256"}]}
]`

var (
	lendingPoolParsed          = bindings.MustParseABI(lendingPoolABI)
	stakedAaveParsed           = bindings.MustParseABI(stakedAaveABI)
	incentivesControllerParsed = bindings.MustParseABI(incentivesControllerABI)
)

// Aave lends reserves through the v2 LendingPool and stakes AAVE in the
// safety module.
type Aave struct {
	safe *greatapesafe.Safe

	lendingPool common.Address
	incentives  common.Address
	aave        common.Address
	stkAave     common.Address
}

func NewAave(safe *greatapesafe.Safe) (*Aave, error) {
	reg := safe.Registry()

	lendingPool, err := reg.Contract("aave.lending_pool")
	if err != nil {
		return nil, err
	}
	incentives, err := reg.Contract("aave.incentives_controller")
	if err != nil {
		return nil, err
	}
	aave, err := reg.Token("AAVE")
	if err != nil {
		return nil, err
	}
	stkAave, err := reg.Token("stkAAVE")
	if err != nil {
		return nil, err
	}

	return &Aave{
		safe:        safe,
		lendingPool: lendingPool,
		incentives:  incentives,
		aave:        aave,
		stkAave:     stkAave,
	}, nil
}

// Deposit supplies amount of asset to the lending pool on behalf of the
// Safe.
func (a *Aave) Deposit(asset common.Address, amount *big.Int) error {
	if err := approve(a.safe, asset, a.lendingPool, amount); err != nil {
		return err
	}

	return record(a.safe, a.lendingPool, lendingPoolParsed, "deposit", asset, amount, a.safe.Address(), uint16(0))
}

// Withdraw redeems amount of asset back to the Safe. Pass MaxUint256 to
// withdraw the full balance.
func (a *Aave) Withdraw(asset common.Address, amount *big.Int) error {
	return record(a.safe, a.lendingPool, lendingPoolParsed, "withdraw", asset, amount, a.safe.Address())
}

// StakeAave locks amount of AAVE into the safety module for stkAAVE.
func (a *Aave) StakeAave(amount *big.Int) error {
	if err := approve(a.safe, a.aave, a.stkAave, amount); err != nil {
		return err
	}

	return record(a.safe, a.stkAave, stakedAaveParsed, "stake", a.safe.Address(), amount)
}

// Cooldown starts the unstake cooldown window on stkAAVE.
func (a *Aave) Cooldown() error {
	return record(a.safe, a.stkAave, stakedAaveParsed, "cooldown")
}

// UnstakeAave redeems amount of stkAAVE after the cooldown has elapsed.
func (a *Aave) UnstakeAave(amount *big.Int) error {
	return record(a.safe, a.stkAave, stakedAaveParsed, "redeem", a.safe.Address(), amount)
}

// ClaimStakingRewards claims the safety module AAVE emissions.
func (a *Aave) ClaimStakingRewards(amount *big.Int) error {
	return record(a.safe, a.stkAave, stakedAaveParsed, "claimRewards", a.safe.Address(), amount)
}

// ClaimLendingRewards claims incentive emissions accrued by the given
// aTokens and debt tokens.
func (a *Aave) ClaimLendingRewards(assets []common.Address, amount *big.Int) error {
	return record(a.safe, a.incentives, incentivesControllerParsed, "claimRewards", assets, amount, a.safe.Address())
}
