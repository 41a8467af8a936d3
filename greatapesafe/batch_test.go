package greatapesafe

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minanew12/badger-multisig/registry"
	"github.com/minanew12/badger-multisig/types"
)

// multiSendSelector is the 4-byte selector of MultiSend.multiSend(bytes).
const multiSendSelector = "0x8d80ff0a"

func newTestSafe(t *testing.T) *Safe {
	t.Helper()

	reg, err := registry.ForChain(1)
	require.NoError(t, err)

	return New(testSafeAddr, 1, "1.3.0", nil, nil, nil, reg)
}

func TestSafe_BuildSafeTx_Empty(t *testing.T) {
	t.Parallel()

	safe := newTestSafe(t)
	_, err := safe.BuildSafeTx(0)
	require.ErrorIs(t, err, ErrEmptyBatch)
}

func TestSafe_BuildSafeTx_SingleCall(t *testing.T) {
	t.Parallel()

	safe := newTestSafe(t)
	safe.AddCall(testTarget, []byte{0x01, 0x02})

	tx, err := safe.BuildSafeTx(5)
	require.NoError(t, err)

	assert.Equal(t, testTarget, tx.To)
	assert.Equal(t, types.Call, tx.Operation)
	assert.Equal(t, []byte{0x01, 0x02}, tx.Data)
	assert.Equal(t, uint64(5), tx.Nonce)
	assert.Equal(t, types.Version("1.3.0"), tx.SafeVersion)
}

func TestSafe_BuildSafeTx_MultiSend(t *testing.T) {
	t.Parallel()

	safe := newTestSafe(t)
	safe.AddCall(testTarget, []byte{0x01})
	safe.AddCallWithValue(common.HexToAddress("0x3"), big.NewInt(1000), []byte{0x02, 0x03})

	tx, err := safe.BuildSafeTx(0)
	require.NoError(t, err)

	multiSendAddr, err := safe.Registry().MultiSend()
	require.NoError(t, err)

	assert.Equal(t, multiSendAddr, tx.To)
	assert.Equal(t, types.DelegateCall, tx.Operation)
	assert.Equal(t, multiSendSelector, hexutil.Encode(tx.Data[:4]))

	// packed encoding: op(1) + to(20) + value(32) + len(32) + data, per call
	wantPackedLen := (1 + 20 + 32 + 32 + 1) + (1 + 20 + 32 + 32 + 2)
	// abi envelope: selector + offset word + length word + padded payload
	assert.Len(t, tx.Data, 4+32+32+(wantPackedLen+31)/32*32)
}

func TestSafe_BatchLifecycle(t *testing.T) {
	t.Parallel()

	safe := newTestSafe(t)
	assert.Equal(t, 0, safe.BatchLen())

	safe.AddCall(testTarget, nil)
	safe.AddDelegateCall(testTarget, nil)
	assert.Equal(t, 2, safe.BatchLen())

	// building does not drain the batch
	_, err := safe.BuildSafeTx(0)
	require.NoError(t, err)
	assert.Equal(t, 2, safe.BatchLen())

	safe.ResetBatch()
	assert.Equal(t, 0, safe.BatchLen())
}
