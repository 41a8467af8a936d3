// Package greatapesafe drives a Gnosis Safe treasury wallet: protocol
// adapters record contract calls on a batch, the batch is assembled into a
// single (possibly MultiSend) Safe transaction, gas is estimated, and the
// result is posted to the Safe Transaction Service for signature collection.
package greatapesafe

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/registry"
	"github.com/minanew12/badger-multisig/txservice"
	"github.com/minanew12/badger-multisig/types"
)

// defaultServiceRPS keeps us well under the public transaction service's
// rate limits.
const defaultServiceRPS = 5

// Safe is a treasury multisig wallet client. It is not safe for concurrent
// use; the tooling is sequential scripting by design.
type Safe struct {
	address common.Address
	chainID uint64
	version types.Version

	client    *ethclient.Client
	rpcClient *rpc.Client
	service   *txservice.Client
	reg       *registry.ChainRegistry
	contract  *bindings.GnosisSafe

	signer Signer

	batch    []BatchedCall
	snapshot *Snapshot
}

// Connect dials the RPC endpoint, resolves the chain's registry and
// transaction service, and reads the Safe's contract version.
func Connect(ctx context.Context, address common.Address, rpcURL string) (*Safe, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}

	client := ethclient.NewClient(rpcClient)
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}

	reg, err := registry.ForChain(chainID.Uint64())
	if err != nil {
		return nil, err
	}

	service := txservice.New(reg.TxServiceURL(), defaultServiceRPS)
	contract := bindings.NewGnosisSafe(address, client)

	version, err := contract.Version(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to read safe version, is %s a safe? %w", address.Hex(), err)
	}

	safe := New(address, chainID.Uint64(), types.Version(version), client, rpcClient, service, reg)

	LoggerFrom(ctx).Infof("connected to safe %s (v%s) on chain %d", address.Hex(), version, chainID)

	return safe, nil
}

// New assembles a Safe from pre-built parts. Used by Connect and by tests
// that don't want to dial anything.
func New(
	address common.Address,
	chainID uint64,
	version types.Version,
	client *ethclient.Client,
	rpcClient *rpc.Client,
	service *txservice.Client,
	reg *registry.ChainRegistry,
) *Safe {
	var contract *bindings.GnosisSafe
	if client != nil {
		contract = bindings.NewGnosisSafe(address, client)
	}

	return &Safe{
		address:   address,
		chainID:   chainID,
		version:   version,
		client:    client,
		rpcClient: rpcClient,
		service:   service,
		reg:       reg,
		contract:  contract,
	}
}

func (s *Safe) Address() common.Address          { return s.address }
func (s *Safe) ChainID() uint64                  { return s.chainID }
func (s *Safe) Version() types.Version           { return s.version }
func (s *Safe) Client() *ethclient.Client        { return s.client }
func (s *Safe) Service() *txservice.Client       { return s.service }
func (s *Safe) Registry() *registry.ChainRegistry { return s.reg }

// SetSigner configures the signer used when posting proposals and
// confirmations.
func (s *Safe) SetSigner(signer Signer) {
	s.signer = signer
}

// Nonce reads the Safe's current on-chain nonce.
func (s *Safe) Nonce(ctx context.Context) (uint64, error) {
	nonce, err := s.contract.Nonce(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, fmt.Errorf("failed to read safe nonce: %w", err)
	}

	return nonce.Uint64(), nil
}

// Threshold reads the number of signatures the Safe requires.
func (s *Safe) Threshold(ctx context.Context) (int, error) {
	threshold, err := s.contract.GetThreshold(&bind.CallOpts{Context: ctx})
	if err != nil {
		return 0, fmt.Errorf("failed to read safe threshold: %w", err)
	}

	return int(threshold.Int64()), nil
}

// Owners reads the Safe's signer set.
func (s *Safe) Owners(ctx context.Context) ([]common.Address, error) {
	owners, err := s.contract.GetOwners(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed to read safe owners: %w", err)
	}

	return owners, nil
}

// Balance reads the Safe's native token balance.
func (s *Safe) Balance(ctx context.Context) (*big.Int, error) {
	return s.client.BalanceAt(ctx, s.address, nil)
}
