package types

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// OperationType is the Safe call type for a transaction, as defined by the
// GnosisSafe Enum.Operation.
type OperationType uint8

const (
	// Call is a regular CALL to the target contract.
	Call OperationType = iota
	// DelegateCall executes the target's code in the Safe's context. Used
	// for MultiSend batches.
	DelegateCall
)

func (o OperationType) String() string {
	switch o {
	case Call:
		return "CALL"
	case DelegateCall:
		return "DELEGATECALL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(o))
	}
}

// SafeTx is a Gnosis Safe transaction: a single (possibly MultiSend-batched)
// call executed atomically by the Safe contract once enough signers approve.
type SafeTx struct {
	Safe           common.Address `json:"safe"            validate:"required"`
	To             common.Address `json:"to"              validate:"required"`
	Value          *big.Int       `json:"value"           validate:"required"`
	Data           []byte         `json:"data"`
	Operation      OperationType  `json:"operation"       validate:"lte=1"`
	SafeTxGas      *big.Int       `json:"safeTxGas"       validate:"required"`
	BaseGas        *big.Int       `json:"baseGas"         validate:"required"`
	GasPrice       *big.Int       `json:"gasPrice"        validate:"required"`
	GasToken       common.Address `json:"gasToken"`
	RefundReceiver common.Address `json:"refundReceiver"`
	Nonce          uint64         `json:"nonce"`

	// Signatures holds the concatenated 65-byte signatures collected so
	// far, in ascending signer address order as required by the Safe
	// contract's checkSignatures.
	Signatures []byte `json:"signatures"`

	// SafeVersion is the version string reported by the Safe contract,
	// used to pick the domain separator layout and the gas heuristic.
	SafeVersion Version `json:"safeVersion"`
}

// NewSafeTx returns a SafeTx with the zero-value gas fields initialized, so
// callers can mutate them without nil checks.
func NewSafeTx(safe, to common.Address, value *big.Int, data []byte, operation OperationType) *SafeTx {
	if value == nil {
		value = new(big.Int)
	}

	return &SafeTx{
		Safe:      safe,
		To:        to,
		Value:     value,
		Data:      data,
		Operation: operation,
		SafeTxGas: new(big.Int),
		BaseGas:   new(big.Int),
		GasPrice:  new(big.Int),
	}
}

// Validate runs tag-based validation over the transaction.
func (tx *SafeTx) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(tx); err != nil {
		return err
	}

	if tx.Value.Sign() < 0 {
		return fmt.Errorf("invalid value: %s", tx.Value)
	}

	return nil
}

// InvalidateSignatures drops all collected signatures. Must be called
// whenever a field covered by the EIP-712 hash changes, since the previous
// signatures no longer match the transaction.
func (tx *SafeTx) InvalidateSignatures() {
	tx.Signatures = nil
}

// Version is a Safe contract version string, e.g. "1.3.0".
type Version string

// ParseVersion parses the major and minor components of a Safe version
// string. Suffixes such as "+L2" are tolerated.
func ParseVersion(s string) (major, minor int, err error) {
	trimmed, _, _ := strings.Cut(strings.TrimSpace(s), "+")
	parts := strings.Split(trimmed, ".")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid safe version %q", s)
	}

	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid safe version %q: %w", s, err)
	}

	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid safe version %q: %w", s, err)
	}

	return major, minor, nil
}

// RequiresSafeTxGas reports whether the Safe is older than v1.3.0. Those
// versions need a non-zero safeTxGas for the signer UI to estimate gas
// correctly, and use a domain separator without the chain id.
func (v Version) RequiresSafeTxGas() (bool, error) {
	major, minor, err := ParseVersion(string(v))
	if err != nil {
		return false, err
	}

	return major <= 1 && minor < 3, nil
}
