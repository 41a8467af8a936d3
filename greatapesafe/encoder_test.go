package greatapesafe

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minanew12/badger-multisig/types"
)

var (
	testSafeAddr = common.HexToAddress("0x19B3Eb3Af5D93b77a5619b047De0EED7115A19e7")
	testTarget   = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

// The typehashes are fixed constants published in the Safe contracts; if
// these drift every signature we produce is invalid.
func TestTypehashes(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"0x47e79534a245952e8b16893a336b85a3d9ea9fa8c573f3d803afb92a79469218",
		domainSeparatorTypehash.Hex(),
	)
	assert.Equal(t,
		"0x035aff83d86937d35b32e04f0ddc6ff469290eef2f1b692d8a815c89404d4749",
		domainSeparatorLegacyTypehash.Hex(),
	)
	assert.Equal(t,
		"0xbb8310d486368db6bd6f849402fdd73ad53d316b5a4b2644ad6efe0f941286d8",
		safeTxTypehash.Hex(),
	)
}

func TestDomainSeparator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		giveVersion types.Version
		wantErr     string
	}{
		{name: "modern safe", giveVersion: "1.3.0"},
		{name: "legacy safe", giveVersion: "1.1.1"},
		{name: "l2 suffix tolerated", giveVersion: "1.3.0+L2"},
		{name: "invalid version", giveVersion: "nope", wantErr: "invalid safe version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := DomainSeparator(tt.giveVersion, 1, testSafeAddr)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, common.Hash{}, got)
		})
	}
}

func TestDomainSeparator_LegacyIgnoresChainID(t *testing.T) {
	t.Parallel()

	// pre-1.3.0 separators have no chain id, so they must be identical
	// across chains
	sep1, err := DomainSeparator("1.1.1", 1, testSafeAddr)
	require.NoError(t, err)
	sep250, err := DomainSeparator("1.1.1", 250, testSafeAddr)
	require.NoError(t, err)
	assert.Equal(t, sep1, sep250)

	// while 1.3.0 separators must differ
	modern1, err := DomainSeparator("1.3.0", 1, testSafeAddr)
	require.NoError(t, err)
	modern250, err := DomainSeparator("1.3.0", 250, testSafeAddr)
	require.NoError(t, err)
	assert.NotEqual(t, modern1, modern250)

	assert.NotEqual(t, sep1, modern1)
}

// Known-answer vectors: an ERC-20 transfer of 1 BADGER out of the treasury
// vault at nonce 42, hashed under both the chain-id domain (1.3.0) and the
// legacy domain (1.1.1).
func TestSafeTxHash_KnownVectors(t *testing.T) {
	t.Parallel()

	vaultAddr := common.HexToAddress("0xA9ed98B5Fb8428d68664f3C5027c62A10d45826b")
	badgerToken := common.HexToAddress("0x3472A5A71965499acd81997a54BBA8D852C6E53d")
	transferData := hexutil.MustDecode(
		"0xa9059cbb" +
			"000000000000000000000000042b32ac6b453485e357938bdc38e0340d4b9276" +
			"0000000000000000000000000000000000000000000000000de0b6b3a7640000",
	)

	tests := []struct {
		name          string
		giveVersion   types.Version
		giveSafeTxGas *big.Int
		wantDomain    string
		wantHash      string
	}{
		{
			name:          "1.3.0 on mainnet",
			giveVersion:   "1.3.0",
			giveSafeTxGas: big.NewInt(0),
			wantDomain:    "0xe4775539d73eb16da5255244e1c011cdcf63b3d035e33c9814feddfdb9ede7ca",
			wantHash:      "0x15cecdfbdb5206ee36b7360b9f1f1fce8f76c8e526de2f988088fc0a40fbe7d9",
		},
		{
			name:          "1.1.1 with refund gas",
			giveVersion:   "1.1.1",
			giveSafeTxGas: big.NewInt(188_130),
			wantDomain:    "0x202d2850730eb5d960e551aa341cc97945959382566782584f0ee7457dbee324",
			wantHash:      "0x1b13e66fdcd2ebf633e5aab3f86e3fb25983c8964aff268ccf009a99a589e55b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tx := types.NewSafeTx(vaultAddr, badgerToken, big.NewInt(0), transferData, types.Call)
			tx.SafeVersion = tt.giveVersion
			tx.SafeTxGas = tt.giveSafeTxGas
			tx.Nonce = 42

			domain, err := DomainSeparator(tt.giveVersion, 1, vaultAddr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDomain, domain.Hex())

			got, err := SafeTxHash(tx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantHash, got.Hex())
		})
	}
}

func TestSafeTxHash(t *testing.T) {
	t.Parallel()

	newTx := func() *types.SafeTx {
		tx := types.NewSafeTx(testSafeAddr, testTarget, big.NewInt(0), []byte{0xde, 0xad}, types.Call)
		tx.SafeVersion = "1.3.0"
		tx.Nonce = 7
		return tx
	}

	base, err := SafeTxHash(newTx(), 1)
	require.NoError(t, err)

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		again, hashErr := SafeTxHash(newTx(), 1)
		require.NoError(t, hashErr)
		assert.Equal(t, base, again)
	})

	t.Run("nonce changes hash", func(t *testing.T) {
		t.Parallel()

		tx := newTx()
		tx.Nonce = 8
		got, hashErr := SafeTxHash(tx, 1)
		require.NoError(t, hashErr)
		assert.NotEqual(t, base, got)
	})

	t.Run("gas changes hash", func(t *testing.T) {
		t.Parallel()

		tx := newTx()
		tx.SafeTxGas = big.NewInt(100_000)
		got, hashErr := SafeTxHash(tx, 1)
		require.NoError(t, hashErr)
		assert.NotEqual(t, base, got)
	})

	t.Run("chain changes hash", func(t *testing.T) {
		t.Parallel()

		got, hashErr := SafeTxHash(newTx(), 250)
		require.NoError(t, hashErr)
		assert.NotEqual(t, base, got)
	})
}
