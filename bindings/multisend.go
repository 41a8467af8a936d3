package bindings

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

const multiSendABI = `[
	{"type":"function","name":"multiSend","stateMutability":"payable","inputs":[{"name":"transactions","type":"bytes"}],"outputs":[]}
]`

var MultiSendABI = MustParseABI(multiSendABI)

// MultiSendTx is one entry of a MultiSend batch.
type MultiSendTx struct {
	Operation uint8
	To        common.Address
	Value     *big.Int
	Data      []byte
}

// PackMultiSend returns the calldata for MultiSend.multiSend over the given
// batch. Each entry is encoded packed, not ABI-encoded:
//
//	operation(1) || to(20) || value(32) || dataLength(32) || data
func PackMultiSend(txs []MultiSendTx) ([]byte, error) {
	var packed []byte
	for _, tx := range txs {
		value := tx.Value
		if value == nil {
			value = new(big.Int)
		}

		packed = append(packed, tx.Operation)
		packed = append(packed, tx.To.Bytes()...)
		packed = append(packed, math.U256Bytes(value)...)
		packed = append(packed, math.U256Bytes(big.NewInt(int64(len(tx.Data))))...)
		packed = append(packed, tx.Data...)
	}

	return MultiSendABI.Pack("multiSend", packed)
}
