package protocols

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHiddenHandsClient_Rewards(t *testing.T) {
	t.Parallel()

	voter := common.HexToAddress("0xA9ed98B5Fb8428d68664f3C5027c62A10d45826b")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/reward/1/%s", voter.Hex()), r.URL.Path)

		fmt.Fprint(w, `{
			"error": false,
			"data": [
				{
					"symbol": "badger",
					"token": "0x3472A5A71965499acd81997a54BBA8D852C6E53d",
					"claimable": "12.5",
					"claimMetadata": {
						"identifier": "0x0000000000000000000000000000000000000000000000000000000000000001",
						"account": "0xA9ed98B5Fb8428d68664f3C5027c62A10d45826b",
						"amount": "12500000000000000000",
						"merkleProof": ["0x0000000000000000000000000000000000000000000000000000000000000002"]
					}
				},
				{
					"symbol": "usdc",
					"token": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
					"claimable": "0",
					"claimMetadata": {}
				}
			]
		}`)
	}))
	defer srv.Close()

	client := NewHiddenHandsClient(srv.URL)
	bribes, err := client.Rewards(context.Background(), 1, voter)
	require.NoError(t, err)

	// the reward without claim metadata is dropped
	require.Len(t, bribes, 1)
	assert.Equal(t, "badger", bribes[0].Symbol)
	assert.Equal(t, "12.5", bribes[0].Claimable.String())
	assert.Equal(t, "12500000000000000000", bribes[0].Amount.String())
	assert.Equal(t, voter, bribes[0].Account)
	require.Len(t, bribes[0].MerkleProof, 1)
}

func TestHiddenHandsClient_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"error": true, "data": []}`)
	}))
	defer srv.Close()

	client := NewHiddenHandsClient(srv.URL)
	_, err := client.Rewards(context.Background(), 1, common.Address{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api reported an error")
}
