package types

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignatureFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("roundtrip", func(t *testing.T) {
		t.Parallel()

		raw := bytes.Repeat([]byte{0xab}, SignatureBytesLength-1)
		raw = append(raw, 27)

		sig, err := NewSignatureFromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, uint8(27), sig.V)
		assert.Equal(t, raw, sig.ToBytes())
	})

	t.Run("wrong length", func(t *testing.T) {
		t.Parallel()

		_, err := NewSignatureFromBytes(make([]byte, 64))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid signature length")
	})
}

func TestSignature_ToEthSignBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		giveV uint8
		wantV uint8
	}{
		{name: "recovery id 0", giveV: 0, wantV: 31},
		{name: "recovery id 1", giveV: 1, wantV: 32},
		{name: "already shifted 27", giveV: 27, wantV: 31},
		{name: "already shifted 28", giveV: 28, wantV: 32},
		{name: "already eth_sign", giveV: 31, wantV: 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sig := Signature{V: tt.giveV}
			out := sig.ToEthSignBytes()
			require.Len(t, out, SignatureBytesLength)
			assert.Equal(t, tt.wantV, out[SignatureBytesLength-1])
		})
	}
}

func TestSignature_Recover(t *testing.T) {
	t.Parallel()

	pk, err := crypto.GenerateKey()
	require.NoError(t, err)

	addr := crypto.PubkeyToAddress(pk.PublicKey)
	hash := crypto.Keccak256Hash([]byte("hello"))

	raw, err := crypto.Sign(hash.Bytes(), pk)
	require.NoError(t, err)

	for _, offset := range []uint8{0, SignatureVOffset, SignatureVOffset + SignatureEthSignOffset} {
		shifted := bytes.Clone(raw)
		shifted[SignatureBytesLength-1] += offset

		sig, sigErr := NewSignatureFromBytes(shifted)
		require.NoError(t, sigErr)

		recovered, recErr := sig.Recover(hash)
		require.NoError(t, recErr)
		assert.Equal(t, addr, recovered)
	}
}
