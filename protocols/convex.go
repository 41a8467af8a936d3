package protocols

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

const convexBoosterABI = `[
	{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"_pid","type":"uint256"},{"name":"_amount","type":"uint256"},{"name":"_stake","type":"bool"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"depositAll","stateMutability":"nonpayable","inputs":[{"name":"_pid","type":"uint256"},{"name":"_stake","type":"bool"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"_pid","type":"uint256"},{"name":"_amount","type":"uint256"}],"outputs":[{"type":"bool"}]}
]`

const convexRewardsABI = `[
	{"type":"function","name":"getReward","stateMutability":"nonpayable","inputs":[{"name":"_account","type":"address"},{"name":"_claimExtras","type":"bool"}],"outputs":[{"type":"bool"}]},
	{"type":"function","name":"withdrawAndUnwrap","stateMutability":"nonpayable","inputs":[{"name":"amount","type":"uint256"},{"name":"claim","type":"bool"}],"outputs":[{"type":"bool"}]}
]`

var (
	convexBoosterParsed = bindings.MustParseABI(convexBoosterABI)
	convexRewardsParsed = bindings.MustParseABI(convexRewardsABI)
)

// Convex stakes Curve LP tokens through the booster and harvests from the
// per-pool reward contracts.
type Convex struct {
	safe    *greatapesafe.Safe
	booster common.Address
}

func NewConvex(safe *greatapesafe.Safe) (*Convex, error) {
	booster, err := safe.Registry().Contract("convex.booster")
	if err != nil {
		return nil, err
	}

	return &Convex{safe: safe, booster: booster}, nil
}

// Deposit stakes amount of the pool's Curve LP token via the booster.
func (c *Convex) Deposit(pid uint64, lpToken common.Address, amount *big.Int) error {
	if err := approve(c.safe, lpToken, c.booster, amount); err != nil {
		return err
	}

	return record(c.safe, c.booster, convexBoosterParsed, "deposit",
		new(big.Int).SetUint64(pid), amount, true)
}

// Withdraw unstakes amount of LP from the pool's reward contract, claiming
// pending rewards along the way.
func (c *Convex) Withdraw(rewardPool common.Address, amount *big.Int) error {
	return record(c.safe, rewardPool, convexRewardsParsed, "withdrawAndUnwrap", amount, true)
}

// ClaimRewards harvests CRV/CVX (and extras) from the pool's reward
// contract.
func (c *Convex) ClaimRewards(rewardPool common.Address) error {
	return record(c.safe, rewardPool, convexRewardsParsed, "getReward", c.safe.Address(), true)
}
