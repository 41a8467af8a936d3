package greatapesafe

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minanew12/badger-multisig/types"
)

func TestPrivateKeySigner(t *testing.T) {
	t.Parallel()

	pk, err := crypto.GenerateKey()
	require.NoError(t, err)

	signer := NewPrivateKeySigner(pk)
	assert.False(t, signer.EthSign())

	addr, err := signer.GetAddress()
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(pk.PublicKey), addr)

	hash := crypto.Keccak256Hash([]byte("payload"))
	raw, err := signer.Sign(hash.Bytes())
	require.NoError(t, err)
	require.Len(t, raw, types.SignatureBytesLength)

	sig, err := types.NewSignatureFromBytes(raw)
	require.NoError(t, err)

	recovered, err := sig.Recover(hash)
	require.NoError(t, err)
	assert.Equal(t, addr, recovered)
}

func TestSafeSignature_VEncoding(t *testing.T) {
	t.Parallel()

	pk, err := crypto.GenerateKey()
	require.NoError(t, err)

	hash := crypto.Keccak256Hash([]byte("payload"))

	t.Run("raw ecdsa gets 27/28", func(t *testing.T) {
		t.Parallel()

		sig, sigErr := SafeSignature(NewPrivateKeySigner(pk), hash)
		require.NoError(t, sigErr)
		require.Len(t, sig, types.SignatureBytesLength)

		v := sig[types.SignatureBytesLength-1]
		assert.Contains(t, []byte{27, 28}, v)
	})

	t.Run("eth_sign gets 31/32", func(t *testing.T) {
		t.Parallel()

		sig, sigErr := SafeSignature(ethSignWrapper{NewPrivateKeySigner(pk)}, hash)
		require.NoError(t, sigErr)

		v := sig[types.SignatureBytesLength-1]
		assert.Contains(t, []byte{31, 32}, v)
	})
}

// ethSignWrapper flips the scheme flag so SafeSignature applies the
// eth_sign v offset.
type ethSignWrapper struct {
	*PrivateKeySigner
}

func (ethSignWrapper) EthSign() bool { return true }
