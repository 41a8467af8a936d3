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

const settABI = `[
	{"type":"function","name":"deposit","stateMutability":"nonpayable","inputs":[{"name":"_amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"depositAll","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"withdraw","stateMutability":"nonpayable","inputs":[{"name":"_shares","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"withdrawAll","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"token","stateMutability":"view","inputs":[],"outputs":[{"type":"address"}]}
]`

const hhDistributorABI = `[
	{"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[{"name":"_claims","type":"tuple[]","components":[{"name":"identifier","type":"bytes32"},{"name":"account","type":"address"},{"name":"amount","type":"uint256"},{"name":"merkleProof","type":"bytes32[]"}]}],"outputs":[]}
]`

const vlAuraABI = `[
	{"type":"function","name":"lockedBalances","stateMutability":"view","inputs":[{"name":"_user","type":"address"}],"outputs":[{"name":"total","type":"uint256"},{"name":"unlockable","type":"uint256"},{"name":"locked","type":"uint256"},{"name":"lockData","type":"tuple[]","components":[{"name":"amount","type":"uint112"},{"name":"unlockTime","type":"uint32"}]}]},
	{"type":"function","name":"processExpiredLocks","stateMutability":"nonpayable","inputs":[{"name":"_relock","type":"bool"}],"outputs":[]},
	{"type":"function","name":"getReward","stateMutability":"nonpayable","inputs":[{"name":"_account","type":"address"}],"outputs":[]},
	{"type":"function","name":"lock","stateMutability":"nonpayable","inputs":[{"name":"_account","type":"address"},{"name":"_amount","type":"uint256"}],"outputs":[]}
]`

var (
	settParsed          = bindings.MustParseABI(settABI)
	hhDistributorParsed = bindings.MustParseABI(hhDistributorABI)
	vlAuraParsed        = bindings.MustParseABI(vlAuraABI)
)

// hhClaim mirrors the reward distributor's Claim struct.
type hhClaim struct {
	Identifier  [32]byte
	Account     common.Address
	Amount      *big.Int
	MerkleProof [][32]byte
}

// LockedBalances is the vlAURA lock state for an account.
type LockedBalances struct {
	Total      *big.Int
	Unlockable *big.Int
	Locked     *big.Int
}

// Badger covers the treasury's own chores: sett vaults, Hidden Hands bribe
// claims and the vlAURA voting position.
type Badger struct {
	safe *greatapesafe.Safe
	hh   *HiddenHandsClient

	distributor common.Address
	vlAura      common.Address
	aura        common.Address
	graviAura   common.Address
}

func NewBadger(safe *greatapesafe.Safe) (*Badger, error) {
	reg := safe.Registry()

	distributor, err := reg.Contract("badger.hh_reward_distributor")
	if err != nil {
		return nil, err
	}
	vlAura, err := reg.Contract("badger.vlaura")
	if err != nil {
		return nil, err
	}
	aura, err := reg.Token("AURA")
	if err != nil {
		return nil, err
	}
	graviAura, err := reg.Token("graviAURA")
	if err != nil {
		return nil, err
	}

	return &Badger{
		safe:        safe,
		hh:          NewHiddenHandsClient(""),
		distributor: distributor,
		vlAura:      vlAura,
		aura:        aura,
		graviAura:   graviAura,
	}, nil
}

// SetHiddenHandsClient overrides the bribe API client. Used by tests.
func (b *Badger) SetHiddenHandsClient(c *HiddenHandsClient) {
	b.hh = c
}

// DepositSett deposits amount of the sett's want token into the vault.
func (b *Badger) DepositSett(sett, want common.Address, amount *big.Int) error {
	if err := approve(b.safe, want, sett, amount); err != nil {
		return err
	}

	return record(b.safe, sett, settParsed, "deposit", amount)
}

// WithdrawAllSett burns the Safe's full sett balance for the underlying.
func (b *Badger) WithdrawAllSett(sett common.Address) error {
	return record(b.safe, sett, settParsed, "withdrawAll")
}

// FetchBribes returns the claimable Hidden Hands bribes for the Safe.
func (b *Badger) FetchBribes(ctx context.Context) ([]Bribe, error) {
	return b.hh.Rewards(ctx, b.safe.ChainID(), b.safe.Address())
}

// ClaimBribes queues a merkle claim for the given bribes on the reward
// distributor.
func (b *Badger) ClaimBribes(bribes []Bribe) error {
	if len(bribes) == 0 {
		return fmt.Errorf("no bribes to claim")
	}

	claims := make([]hhClaim, 0, len(bribes))
	for _, bribe := range bribes {
		proof := make([][32]byte, 0, len(bribe.MerkleProof))
		for _, node := range bribe.MerkleProof {
			proof = append(proof, node)
		}

		claims = append(claims, hhClaim{
			Identifier:  bribe.Identifier,
			Account:     bribe.Account,
			Amount:      bribe.Amount,
			MerkleProof: proof,
		})
	}

	return record(b.safe, b.distributor, hhDistributorParsed, "claim", claims)
}

// VoterLockedBalances reads the Safe's vlAURA lock state.
func (b *Badger) VoterLockedBalances(ctx context.Context) (*LockedBalances, error) {
	bound := bind.NewBoundContract(b.vlAura, vlAuraParsed, b.safe.Client(), nil, nil)

	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, "lockedBalances", b.safe.Address()); err != nil {
		return nil, fmt.Errorf("failed to read vlAURA locked balances: %w", err)
	}

	return &LockedBalances{
		Total:      abi.ConvertType(out[0], new(big.Int)).(*big.Int),
		Unlockable: abi.ConvertType(out[1], new(big.Int)).(*big.Int),
		Locked:     abi.ConvertType(out[2], new(big.Int)).(*big.Int),
	}, nil
}

// ProcessExpiredLocks queues a relock (or unlock) of expired vlAURA locks.
func (b *Badger) ProcessExpiredLocks(relock bool) error {
	return record(b.safe, b.vlAura, vlAuraParsed, "processExpiredLocks", relock)
}

// ClaimVoterRewards queues a vlAURA reward claim (auraBAL et al).
func (b *Badger) ClaimVoterRewards() error {
	return record(b.safe, b.vlAura, vlAuraParsed, "getReward", b.safe.Address())
}

// LockAura queues locking amount of AURA into vlAURA.
func (b *Badger) LockAura(amount *big.Int) error {
	if err := approve(b.safe, b.aura, b.vlAura, amount); err != nil {
		return err
	}

	return record(b.safe, b.vlAura, vlAuraParsed, "lock", b.safe.Address(), amount)
}

// WithdrawAllGraviAura redeems the Safe's full graviAURA balance for AURA.
func (b *Badger) WithdrawAllGraviAura() error {
	return record(b.safe, b.graviAura, settParsed, "withdrawAll")
}
