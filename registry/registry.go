// Package registry holds the per-chain address book: token and protocol
// contract addresses, multisig coordination endpoints and native currency
// labels. The data is embedded so scripts don't depend on a working
// directory layout.
package registry

import (
	"fmt"

	_ "embed"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

//go:embed addresses.yaml
var rawAddresses []byte

type chainConfig struct {
	Label     string            `yaml:"label"`
	TxService string            `yaml:"txservice"`
	MultiSend string            `yaml:"multisend"`
	Tokens    map[string]string `yaml:"tokens"`
	Contracts map[string]string `yaml:"contracts"`
	Wallets   map[string]string `yaml:"wallets"`
}

type addressBook struct {
	Chains map[string]chainConfig `yaml:"chains"`
}

var book addressBook

func init() {
	if err := yaml.Unmarshal(rawAddresses, &book); err != nil {
		panic(fmt.Sprintf("registry: malformed addresses.yaml: %v", err))
	}
}

// NotFoundError is returned when a lookup key has no entry for the chain.
type NotFoundError struct {
	ChainID uint64
	Kind    string
	Key     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("registry: no %s %q for chain %d", e.Kind, e.Key, e.ChainID)
}

// ChainRegistry is the address book scoped to one chain.
type ChainRegistry struct {
	chainID uint64
	cfg     chainConfig
}

// ForChain returns the registry for the given chain id, or an error if the
// chain is not covered by the address book.
func ForChain(chainID uint64) (*ChainRegistry, error) {
	for key, cfg := range book.Chains {
		id, err := cast.ToUint64E(key)
		if err != nil {
			return nil, fmt.Errorf("registry: invalid chain key %q: %w", key, err)
		}
		if id == chainID {
			return &ChainRegistry{chainID: chainID, cfg: cfg}, nil
		}
	}

	return nil, &NotFoundError{ChainID: chainID, Kind: "chain", Key: cast.ToString(chainID)}
}

// ChainIDs returns all chain ids covered by the address book.
func ChainIDs() []uint64 {
	ids := make([]uint64, 0, len(book.Chains))
	for key := range book.Chains {
		ids = append(ids, cast.ToUint64(key))
	}

	return ids
}

func (r *ChainRegistry) ChainID() uint64 {
	return r.chainID
}

// Label returns the native currency label used in balance snapshots.
func (r *ChainRegistry) Label() string {
	return r.cfg.Label
}

// TxServiceURL returns the Safe Transaction Service base URL for the chain.
func (r *ChainRegistry) TxServiceURL() string {
	return r.cfg.TxService
}

// MultiSend returns the MultiSend contract used to batch Safe calls.
func (r *ChainRegistry) MultiSend() (common.Address, error) {
	return r.lookup("multisend", "multisend", map[string]string{"multisend": r.cfg.MultiSend})
}

// Token resolves a token symbol to its address on the chain.
func (r *ChainRegistry) Token(symbol string) (common.Address, error) {
	return r.lookup("token", symbol, r.cfg.Tokens)
}

// Contract resolves a protocol contract key (e.g. "aave.lending_pool") to
// its address on the chain.
func (r *ChainRegistry) Contract(key string) (common.Address, error) {
	return r.lookup("contract", key, r.cfg.Contracts)
}

// Wallet resolves a treasury wallet name to its address on the chain.
func (r *ChainRegistry) Wallet(name string) (common.Address, error) {
	return r.lookup("wallet", name, r.cfg.Wallets)
}

func (r *ChainRegistry) lookup(kind, key string, m map[string]string) (common.Address, error) {
	raw, ok := m[key]
	if !ok || raw == "" {
		return common.Address{}, &NotFoundError{ChainID: r.chainID, Kind: kind, Key: key}
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("registry: %s %q on chain %d is not an address: %q", kind, key, r.chainID, raw)
	}

	return common.HexToAddress(raw), nil
}
