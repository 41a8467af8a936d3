package abi

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestABIEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		giveABI string
		giveVal []any
		wantLen int
		wantErr string
	}{
		{
			name:    "success: static types",
			giveABI: `[{"type":"bytes32"},{"type":"uint256"}]`,
			giveVal: []any{common.HexToHash("0x1"), big.NewInt(42)},
			wantLen: 64,
		},
		{
			name:    "success: address",
			giveABI: `[{"type":"address"}]`,
			giveVal: []any{common.HexToAddress("0x2")},
			wantLen: 32,
		},
		{
			name:    "failure: malformed abi",
			giveABI: `[{"type":}]`,
			giveVal: []any{},
			wantErr: "invalid character",
		},
		{
			name:    "failure: argument mismatch",
			giveABI: `[{"type":"uint256"}]`,
			giveVal: []any{},
			wantErr: "argument count mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ABIEncode(tt.giveABI, tt.giveVal...)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestABIDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	abiStr := `[{"type":"address"},{"type":"uint256"}]`
	wantAddr := common.HexToAddress("0xdeadbeef")
	wantAmount := big.NewInt(1e9)

	encoded, err := ABIEncode(abiStr, wantAddr, wantAmount)
	require.NoError(t, err)

	decoded, err := ABIDecode(abiStr, encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, wantAddr, decoded[0])
	assert.Equal(t, wantAmount, decoded[1])
}
