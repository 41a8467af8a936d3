// Package protocols contains the per-protocol adapters. An adapter wraps
// the contract addresses a protocol uses on the connected chain and records
// calls on the Safe's batch; nothing is sent on-chain until the batch is
// posted. Constructors fail when the registry has no addresses for the
// chain, so callers can tell which protocols are available.
package protocols

import (
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// swapDeadline is how far in the future AMM swap deadlines are set.
const swapDeadline = 20 * time.Minute

// ErrEmptyRoute is returned when a swap is attempted without a path.
var ErrEmptyRoute = errors.New("empty swap route")

func deadline() *big.Int {
	return big.NewInt(time.Now().Add(swapDeadline).Unix())
}

// record packs a method call and queues it on the Safe's batch.
func record(safe *greatapesafe.Safe, to common.Address, parsed abi.ABI, method string, args ...any) error {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return err
	}

	safe.AddCall(to, data)

	return nil
}

// recordWithValue is record for payable methods.
func recordWithValue(safe *greatapesafe.Safe, to common.Address, value *big.Int, parsed abi.ABI, method string, args ...any) error {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return err
	}

	safe.AddCallWithValue(to, value, data)

	return nil
}

// approve queues an ERC-20 approve of spender for amount. Adapters call
// this ahead of any deposit or swap that pulls tokens from the Safe.
func approve(safe *greatapesafe.Safe, token, spender common.Address, amount *big.Int) error {
	data, err := bindings.PackApprove(spender, amount)
	if err != nil {
		return err
	}

	safe.AddCall(token, data)

	return nil
}
