package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		giveChainID uint64
		wantLabel   string
		wantErr     string
	}{
		{name: "success: mainnet", giveChainID: 1, wantLabel: "ETH"},
		{name: "success: fantom", giveChainID: 250, wantLabel: "FTM"},
		{name: "failure: unknown chain", giveChainID: 999999, wantErr: `no chain "999999"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ForChain(tt.giveChainID)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, got.Label())
			assert.NotEmpty(t, got.TxServiceURL())
		})
	}
}

func TestChainRegistry_Lookups(t *testing.T) {
	t.Parallel()

	reg, err := ForChain(1)
	require.NoError(t, err)

	t.Run("token", func(t *testing.T) {
		t.Parallel()

		addr, err := reg.Token("WETH")
		require.NoError(t, err)
		assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", addr.Hex())

		_, err = reg.Token("NOPE")
		require.Error(t, err)

		var nfErr *NotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "NOPE", nfErr.Key)
	})

	t.Run("contract", func(t *testing.T) {
		t.Parallel()

		addr, err := reg.Contract("aave.lending_pool")
		require.NoError(t, err)
		assert.Equal(t, "0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9", addr.Hex())

		_, err = reg.Contract("aave.nope")
		require.Error(t, err)
	})

	t.Run("multisend", func(t *testing.T) {
		t.Parallel()

		addr, err := reg.MultiSend()
		require.NoError(t, err)
		assert.Equal(t, "0xA238CBeb142c10Ef7Ad8442C6D1f9E89e07e7761", addr.Hex())
	})
}

func TestChainIDs(t *testing.T) {
	t.Parallel()

	ids := ChainIDs()
	assert.Contains(t, ids, uint64(1))
	assert.Contains(t, ids, uint64(250))
}
