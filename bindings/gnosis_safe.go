package bindings

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	coretypes "github.com/ethereum/go-ethereum/core/types"
)

const gnosisSafeABI = `[
	{"type":"function","name":"VERSION","stateMutability":"view","inputs":[],"outputs":[{"type":"string"}]},
	{"type":"function","name":"nonce","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"getThreshold","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"type":"function","name":"getOwners","stateMutability":"view","inputs":[],"outputs":[{"type":"address[]"}]},
	{"type":"function","name":"execTransaction","stateMutability":"payable","inputs":[
		{"name":"to","type":"address"},
		{"name":"value","type":"uint256"},
		{"name":"data","type":"bytes"},
		{"name":"operation","type":"uint8"},
		{"name":"safeTxGas","type":"uint256"},
		{"name":"baseGas","type":"uint256"},
		{"name":"gasPrice","type":"uint256"},
		{"name":"gasToken","type":"address"},
		{"name":"refundReceiver","type":"address"},
		{"name":"signatures","type":"bytes"}],
		"outputs":[{"type":"bool"}]},
	{"type":"function","name":"approveHash","stateMutability":"nonpayable","inputs":[{"name":"hashToApprove","type":"bytes32"}],"outputs":[]}
]`

var GnosisSafeABI = MustParseABI(gnosisSafeABI)

// GnosisSafe wraps the Safe contract's read surface plus calldata packing
// for execTransaction.
type GnosisSafe struct {
	address  common.Address
	contract *bind.BoundContract
}

func NewGnosisSafe(address common.Address, backend ContractBackend) *GnosisSafe {
	return &GnosisSafe{
		address:  address,
		contract: newBound(address, GnosisSafeABI, backend),
	}
}

func (s *GnosisSafe) Address() common.Address {
	return s.address
}

func (s *GnosisSafe) Version(opts *bind.CallOpts) (string, error) {
	var out []any
	if err := s.contract.Call(opts, &out, "VERSION"); err != nil {
		return "", err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (s *GnosisSafe) Nonce(opts *bind.CallOpts) (*big.Int, error) {
	var out []any
	if err := s.contract.Call(opts, &out, "nonce"); err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (s *GnosisSafe) GetThreshold(opts *bind.CallOpts) (*big.Int, error) {
	var out []any
	if err := s.contract.Call(opts, &out, "getThreshold"); err != nil {
		return nil, err
	}

	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

func (s *GnosisSafe) GetOwners(opts *bind.CallOpts) ([]common.Address, error) {
	var out []any
	if err := s.contract.Call(opts, &out, "getOwners"); err != nil {
		return nil, err
	}

	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

// ExecTransaction sends the Safe's execTransaction with the collected
// signatures blob.
func (s *GnosisSafe) ExecTransaction(
	opts *bind.TransactOpts,
	to common.Address,
	value *big.Int,
	data []byte,
	operation uint8,
	safeTxGas *big.Int,
	baseGas *big.Int,
	gasPrice *big.Int,
	gasToken common.Address,
	refundReceiver common.Address,
	signatures []byte,
) (*coretypes.Transaction, error) {
	return s.contract.Transact(
		opts,
		"execTransaction",
		to,
		value,
		data,
		operation,
		safeTxGas,
		baseGas,
		gasPrice,
		gasToken,
		refundReceiver,
		signatures,
	)
}

// PackExecTransaction returns the calldata for the Safe's execTransaction
// method with the collected signatures blob.
func PackExecTransaction(
	to common.Address,
	value *big.Int,
	data []byte,
	operation uint8,
	safeTxGas *big.Int,
	baseGas *big.Int,
	gasPrice *big.Int,
	gasToken common.Address,
	refundReceiver common.Address,
	signatures []byte,
) ([]byte, error) {
	return GnosisSafeABI.Pack(
		"execTransaction",
		to,
		value,
		data,
		operation,
		safeTxGas,
		baseGas,
		gasPrice,
		gasToken,
		refundReceiver,
		signatures,
	)
}
