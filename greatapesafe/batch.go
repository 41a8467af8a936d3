package greatapesafe

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/types"
)

// BatchedCall is one recorded contract call, queued for inclusion in the
// next Safe transaction instead of being sent directly.
type BatchedCall struct {
	To        common.Address
	Value     *big.Int
	Data      []byte
	Operation types.OperationType
}

// AddCall records a zero-value CALL on the batch. This is what protocol
// adapters use for their contract interactions.
func (s *Safe) AddCall(to common.Address, data []byte) {
	s.AddCallWithValue(to, nil, data)
}

// AddCallWithValue records a CALL carrying native value on the batch.
func (s *Safe) AddCallWithValue(to common.Address, value *big.Int, data []byte) {
	if value == nil {
		value = new(big.Int)
	}
	s.batch = append(s.batch, BatchedCall{To: to, Value: value, Data: data, Operation: types.Call})
}

// AddDelegateCall records a DELEGATECALL on the batch. Only needed for
// helper contracts designed to run in the Safe's context.
func (s *Safe) AddDelegateCall(to common.Address, data []byte) {
	s.batch = append(s.batch, BatchedCall{To: to, Value: new(big.Int), Data: data, Operation: types.DelegateCall})
}

// BatchLen returns the number of recorded calls.
func (s *Safe) BatchLen() int {
	return len(s.batch)
}

// ResetBatch drops all recorded calls.
func (s *Safe) ResetBatch() {
	s.batch = nil
}

// BuildSafeTx assembles the recorded batch into a single SafeTx at the
// given nonce. One recorded call becomes a direct transaction; multiple
// calls are packed into a MultiSend delegatecall. The batch is left intact;
// PostSafeTx drains it only after a successful preview.
func (s *Safe) BuildSafeTx(nonce uint64) (*types.SafeTx, error) {
	if len(s.batch) == 0 {
		return nil, ErrEmptyBatch
	}

	var tx *types.SafeTx
	if len(s.batch) == 1 {
		call := s.batch[0]
		tx = types.NewSafeTx(s.address, call.To, call.Value, call.Data, call.Operation)
	} else {
		multiSendAddr, err := s.reg.MultiSend()
		if err != nil {
			return nil, err
		}

		msTxs := make([]bindings.MultiSendTx, 0, len(s.batch))
		for _, call := range s.batch {
			msTxs = append(msTxs, bindings.MultiSendTx{
				Operation: uint8(call.Operation),
				To:        call.To,
				Value:     call.Value,
				Data:      call.Data,
			})
		}

		data, err := bindings.PackMultiSend(msTxs)
		if err != nil {
			return nil, err
		}

		tx = types.NewSafeTx(s.address, multiSendAddr, nil, data, types.DelegateCall)
	}

	tx.Nonce = nonce
	tx.SafeVersion = s.version

	return tx, nil
}
