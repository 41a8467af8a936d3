package txservice

import (
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/minanew12/badger-multisig/internal/utils/safecast"
	"github.com/minanew12/badger-multisig/types"
)

// SafeInfo is the coordination service's view of a Safe.
type SafeInfo struct {
	Address         string   `json:"address"`
	Nonce           uint64   `json:"nonce"`
	Threshold       int      `json:"threshold"`
	Owners          []string `json:"owners"`
	MasterCopy      string   `json:"masterCopy"`
	Version         string   `json:"version"`
	FallbackHandler string   `json:"fallbackHandler"`
}

// Confirmation is one collected signature on a proposed transaction.
type Confirmation struct {
	Owner           string `json:"owner"`
	Signature       string `json:"signature"`
	SignatureType   string `json:"signatureType"`
	SubmissionDate  string `json:"submissionDate"`
	TransactionHash string `json:"transactionHash"`
}

// MultisigTransaction is a proposed (possibly executed) Safe transaction as
// returned by the service. Numeric uint256 fields arrive as decimal strings.
type MultisigTransaction struct {
	Safe                  string         `json:"safe"`
	To                    string         `json:"to"`
	Value                 string         `json:"value"`
	Data                  *string        `json:"data"`
	Operation             int            `json:"operation"`
	GasToken              string         `json:"gasToken"`
	SafeTxGas             uint64         `json:"safeTxGas"`
	BaseGas               uint64         `json:"baseGas"`
	GasPrice              string         `json:"gasPrice"`
	RefundReceiver        string         `json:"refundReceiver"`
	Nonce                 uint64         `json:"nonce"`
	SafeTxHash            string         `json:"safeTxHash"`
	IsExecuted            bool           `json:"isExecuted"`
	ConfirmationsRequired int            `json:"confirmationsRequired"`
	Confirmations         []Confirmation `json:"confirmations"`
}

// pagedTransactions is the service's cursor-paginated list envelope.
type pagedTransactions struct {
	Count    int                   `json:"count"`
	Next     *string               `json:"next"`
	Previous *string               `json:"previous"`
	Results  []MultisigTransaction `json:"results"`
}

// SafeTx converts the service representation back into a SafeTx so it can
// be hashed and signed locally.
func (m *MultisigTransaction) SafeTx(version types.Version) (*types.SafeTx, error) {
	value, ok := new(big.Int).SetString(m.Value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid value %q in service transaction %s", m.Value, m.SafeTxHash)
	}

	gasPrice := new(big.Int)
	if m.GasPrice != "" {
		if _, ok = gasPrice.SetString(m.GasPrice, 10); !ok {
			return nil, fmt.Errorf("invalid gasPrice %q in service transaction %s", m.GasPrice, m.SafeTxHash)
		}
	}

	var data []byte
	if m.Data != nil && *m.Data != "" && *m.Data != "0x" {
		decoded, err := hexutil.Decode(*m.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid data in service transaction %s: %w", m.SafeTxHash, err)
		}
		data = decoded
	}

	operation, err := safecast.IntToUint8(m.Operation)
	if err != nil || operation > 1 {
		return nil, fmt.Errorf("invalid operation %d in service transaction %s", m.Operation, m.SafeTxHash)
	}

	tx := types.NewSafeTx(
		common.HexToAddress(m.Safe),
		common.HexToAddress(m.To),
		value,
		data,
		types.OperationType(operation),
	)
	tx.SafeTxGas = new(big.Int).SetUint64(m.SafeTxGas)
	tx.BaseGas = new(big.Int).SetUint64(m.BaseGas)
	tx.GasPrice = gasPrice
	tx.GasToken = common.HexToAddress(m.GasToken)
	tx.RefundReceiver = common.HexToAddress(m.RefundReceiver)
	tx.Nonce = m.Nonce
	tx.SafeVersion = version

	return tx, nil
}

// SortedSignatures concatenates the collected confirmations in ascending
// owner address order, as the Safe contract's checkSignatures requires.
func (m *MultisigTransaction) SortedSignatures() ([]byte, error) {
	confs := make([]Confirmation, len(m.Confirmations))
	copy(confs, m.Confirmations)

	slices.SortFunc(confs, func(a, b Confirmation) int {
		return strings.Compare(strings.ToLower(a.Owner), strings.ToLower(b.Owner))
	})

	var out []byte
	for _, conf := range confs {
		sig, err := hexutil.Decode(conf.Signature)
		if err != nil {
			return nil, fmt.Errorf("invalid signature from %s: %w", conf.Owner, err)
		}
		if len(sig)%types.SignatureBytesLength != 0 {
			return nil, fmt.Errorf("invalid signature length %d from %s", len(sig), conf.Owner)
		}
		out = append(out, sig...)
	}

	return out, nil
}

// ProposePayload is the POST body for proposing a transaction to the
// service. contractTransactionHash is the locally computed EIP-712 hash;
// the service recomputes and rejects mismatches.
type ProposePayload struct {
	Safe                    string `json:"safe"                    validate:"required"`
	To                      string `json:"to"                      validate:"required"`
	Value                   string `json:"value"                   validate:"required"`
	Data                    string `json:"data"`
	Operation               int    `json:"operation"               validate:"lte=1"`
	GasToken                string `json:"gasToken"`
	SafeTxGas               uint64 `json:"safeTxGas"`
	BaseGas                 uint64 `json:"baseGas"`
	GasPrice                string `json:"gasPrice"`
	RefundReceiver          string `json:"refundReceiver"`
	Nonce                   uint64 `json:"nonce"`
	ContractTransactionHash string `json:"contractTransactionHash" validate:"required"`
	Sender                  string `json:"sender"                  validate:"required"`
	Signature               string `json:"signature"`
	Origin                  string `json:"origin"`
}

// NewProposePayload builds the service payload from a hashed SafeTx.
func NewProposePayload(tx *types.SafeTx, txHash common.Hash, sender common.Address, signature []byte, origin string) *ProposePayload {
	data := ""
	if len(tx.Data) > 0 {
		data = hexutil.Encode(tx.Data)
	}

	sig := ""
	if len(signature) > 0 {
		sig = hexutil.Encode(signature)
	}

	return &ProposePayload{
		Safe:                    tx.Safe.Hex(),
		To:                      tx.To.Hex(),
		Value:                   tx.Value.String(),
		Data:                    data,
		Operation:               int(tx.Operation),
		GasToken:                tx.GasToken.Hex(),
		SafeTxGas:               tx.SafeTxGas.Uint64(),
		BaseGas:                 tx.BaseGas.Uint64(),
		GasPrice:                tx.GasPrice.String(),
		RefundReceiver:          tx.RefundReceiver.Hex(),
		Nonce:                   tx.Nonce,
		ContractTransactionHash: txHash.Hex(),
		Sender:                  sender.Hex(),
		Signature:               sig,
		Origin:                  origin,
	}
}
