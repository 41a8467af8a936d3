package protocols

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCow_QuoteAndPlaceOrder(t *testing.T) {
	t.Parallel()

	orderUID := "0x" + strings.Repeat("ab", 56)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/quote":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "sell", req["kind"])
			assert.Equal(t, "presign", req["signingScheme"])

			fmt.Fprintf(w, `{"quote":{
				"sellToken":"%s","buyToken":"%s","receiver":"%s",
				"sellAmount":"990","buyAmount":"42","feeAmount":"10",
				"validTo":1700000000,"appData":"0x00","kind":"sell",
				"partiallyFillable":false,"sellTokenBalance":"erc20","buyTokenBalance":"erc20"
			}}`, testTokenA.Hex(), testTokenB.Hex(), testSafeAddr.Hex())
		case "/api/v1/orders":
			var order map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
			assert.Equal(t, "presign", order["signingScheme"])
			assert.Equal(t, "0x", order["signature"])
			assert.Equal(t, "990", order["sellAmount"])

			fmt.Fprintf(w, "%q", orderUID)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	safe := newTestSafe(t, 1)
	cow, err := NewCow(safe)
	require.NoError(t, err)
	cow.SetAPIURL(srv.URL)

	quote, err := cow.Quote(context.Background(), testTokenA, testTokenB, big.NewInt(1000))
	require.NoError(t, err)
	assert.Equal(t, "990", quote.SellAmount)
	assert.Equal(t, "42", quote.BuyAmount)

	uid, err := cow.PlaceOrder(context.Background(), quote)
	require.NoError(t, err)
	assert.Equal(t, orderUID, hexutil.Encode(uid))

	// approve relayer + mark signed
	require.NoError(t, cow.ApproveRelayer(testTokenA, big.NewInt(1000)))
	require.NoError(t, cow.SignOrder(uid))
	assert.Equal(t, 2, safe.BatchLen())
}

func TestCow_QuoteRejection(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, `{"errorType":"NoLiquidity"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	safe := newTestSafe(t, 1)
	cow, err := NewCow(safe)
	require.NoError(t, err)
	cow.SetAPIURL(srv.URL)

	_, err = cow.Quote(context.Background(), testTokenA, testTokenB, big.NewInt(1000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoLiquidity")

	// 4xx responses are not retried
	assert.Equal(t, 1, calls)
}
