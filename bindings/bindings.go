// Package bindings holds thin wrappers around the handful of contracts the
// treasury tooling talks to directly: the GnosisSafe itself, the MultiSend
// batching helper and ERC-20 tokens. Protocol-specific contracts are packed
// ad hoc by their adapters.
package bindings

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// ContractBackend is the subset of the go-ethereum backend the wrappers
// need. *ethclient.Client satisfies it.
type ContractBackend interface {
	bind.ContractCaller
	bind.ContractTransactor
	bind.ContractFilterer
}

// MustParseABI parses an ABI JSON fragment, panicking on error. Only used
// with compile-time constant fragments.
func MustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}

	return parsed
}

func newBound(address common.Address, parsed abi.ABI, backend ContractBackend) *bind.BoundContract {
	return bind.NewBoundContract(address, parsed, backend, backend, backend)
}
