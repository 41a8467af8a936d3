package greatapesafe

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minanew12/badger-multisig/types"
)

func TestSafe_SetSafeTxGas(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		giveVersion types.Version
		giveGasUsed uint64
		giveCoef    float64
		want        uint64
		wantErr     string
	}{
		{
			name:        "modern safe gets zero",
			giveVersion: "1.3.0",
			giveGasUsed: 100_000,
			giveCoef:    1.5,
			want:        0,
		},
		{
			// 64/63 rule dominates: 100000*64/63 = 101587
			// 35000 + 1.5*(101587+500) = 188130
			name:        "legacy safe, large estimate",
			giveVersion: "1.1.1",
			giveGasUsed: 100_000,
			giveCoef:    1.5,
			want:        188_130,
		},
		{
			// flat padding dominates for small estimates: max(1015, 3500)
			// 35000 + 1.0*(3500+500) = 39000
			name:        "legacy safe, small estimate",
			giveVersion: "1.1.1",
			giveGasUsed: 1_000,
			giveCoef:    1.0,
			want:        39_000,
		},
		{
			// zero coef falls back to the default 1.5
			name:        "legacy safe, default coef",
			giveVersion: "1.1.1",
			giveGasUsed: 1_000,
			giveCoef:    0,
			want:        41_000,
		},
		{
			name:        "invalid version",
			giveVersion: "garbage",
			wantErr:     "invalid safe version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			safe := newTestSafe(t)
			tx := types.NewSafeTx(testSafeAddr, testTarget, big.NewInt(0), nil, types.Call)
			tx.SafeVersion = tt.giveVersion
			tx.Signatures = []byte{0x01}

			err := safe.SetSafeTxGas(tx, tt.giveGasUsed, tt.giveCoef)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.SafeTxGas.Uint64())

			if tt.want != 0 {
				// setting the gas changed the hash, signatures must be gone
				assert.Empty(t, tx.Signatures)
			}
		})
	}
}
