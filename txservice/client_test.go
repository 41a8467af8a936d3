package txservice

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minanew12/badger-multisig/types"
)

var testSafe = common.HexToAddress("0x19B3Eb3Af5D93b77a5619b047De0EED7115A19e7")

func TestClient_SafeInfo(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/api/v1/safes/%s/", testSafe.Hex()), r.URL.Path)
		json.NewEncoder(w).Encode(SafeInfo{
			Address:   testSafe.Hex(),
			Nonce:     42,
			Threshold: 3,
			Owners:    []string{"0x1", "0x2", "0x3", "0x4"},
			Version:   "1.3.0",
		})
	}))
	defer srv.Close()

	client := New(srv.URL, 100)
	info, err := client.SafeInfo(context.Background(), testSafe)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), info.Nonce)
	assert.Equal(t, 3, info.Threshold)
	assert.Equal(t, "1.3.0", info.Version)
}

func TestClient_SafeInfo_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(srv.URL, 100)
	_, err := client.SafeInfo(context.Background(), testSafe)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClient_ProposeTransaction(t *testing.T) {
	t.Parallel()

	var got ProposePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tx := types.NewSafeTx(testSafe, common.HexToAddress("0x2"), big.NewInt(0), []byte{0x01}, types.Call)
	tx.Nonce = 7
	payload := NewProposePayload(
		tx,
		common.HexToHash("0xabc"),
		common.HexToAddress("0x3"),
		[]byte{0xde, 0xad},
		"badger-multisig",
	)

	client := New(srv.URL, 100)
	err := client.ProposeTransaction(context.Background(), testSafe, payload)
	require.NoError(t, err)

	assert.Equal(t, tx.Safe.Hex(), got.Safe)
	assert.Equal(t, uint64(7), got.Nonce)
	assert.Equal(t, "0x01", got.Data)
	assert.Equal(t, "0xdead", got.Signature)
}

func TestClient_ProposeTransaction_InvalidPayload(t *testing.T) {
	t.Parallel()

	client := New("http://localhost:1", 100)
	err := client.ProposeTransaction(context.Background(), testSafe, &ProposePayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid propose payload")
}

func TestClient_PendingTransactions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("executed"))
		assert.Equal(t, "42", r.URL.Query().Get("nonce__gte"))
		json.NewEncoder(w).Encode(pagedTransactions{
			Count: 1,
			Results: []MultisigTransaction{
				{Safe: testSafe.Hex(), Nonce: 42, Value: "0", SafeTxHash: "0x1"},
			},
		})
	}))
	defer srv.Close()

	client := New(srv.URL, 100)
	pending, err := client.PendingTransactions(context.Background(), testSafe, 42)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, uint64(42), pending[0].Nonce)
}

func TestClient_Retry5xx(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(SafeInfo{Nonce: 1})
	}))
	defer srv.Close()

	client := New(srv.URL, 100)
	info, err := client.SafeInfo(context.Background(), testSafe)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.Nonce)
	assert.Equal(t, 3, calls)
}

func TestClient_NoRetryOn422(t *testing.T) {
	t.Parallel()

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"nonFieldErrors":["Tx hash mismatch"]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, 100)
	err := client.PostConfirmation(context.Background(), common.HexToHash("0x1"), []byte{0x01})
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestMultisigTransaction_SafeTx(t *testing.T) {
	t.Parallel()

	data := "0xdeadbeef"
	tests := []struct {
		name    string
		give    MultisigTransaction
		wantErr string
	}{
		{
			name: "success",
			give: MultisigTransaction{
				Safe:      testSafe.Hex(),
				To:        "0x0000000000000000000000000000000000000002",
				Value:     "1000000000000000000",
				Data:      &data,
				Operation: 0,
				GasPrice:  "0",
				Nonce:     9,
			},
		},
		{
			name:    "failure: bad value",
			give:    MultisigTransaction{Value: "not-a-number"},
			wantErr: "invalid value",
		},
		{
			name:    "failure: bad operation",
			give:    MultisigTransaction{Value: "0", Operation: 2},
			wantErr: "invalid operation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.give.SafeTx("1.3.0")

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, uint64(9), got.Nonce)
			assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got.Data)
			assert.Equal(t, "1000000000000000000", got.Value.String())
		})
	}
}

func TestMultisigTransaction_SortedSignatures(t *testing.T) {
	t.Parallel()

	sigA := "0x" + repeatByte(0xaa, 65)
	sigB := "0x" + repeatByte(0xbb, 65)

	tx := MultisigTransaction{
		Confirmations: []Confirmation{
			{Owner: "0xBBBB000000000000000000000000000000000000", Signature: sigB},
			{Owner: "0xaaaa000000000000000000000000000000000000", Signature: sigA},
		},
	}

	got, err := tx.SortedSignatures()
	require.NoError(t, err)
	require.Len(t, got, 130)

	// lower owner address first
	assert.Equal(t, byte(0xaa), got[0])
	assert.Equal(t, byte(0xbb), got[65])
}

func repeatByte(b byte, n int) string {
	out := ""
	for range n {
		out += fmt.Sprintf("%02x", b)
	}

	return out
}
