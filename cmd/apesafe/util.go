package apesafe

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/minanew12/badger-multisig/greatapesafe"
)

// loadDotEnv loads .env when present. Missing files are fine; flags and the
// process environment still apply.
func loadDotEnv() {
	_ = godotenv.Load(".env")
}

func connectSafe(cmd *cobra.Command) (*greatapesafe.Safe, error) {
	loadDotEnv()

	safeAddress, _ := cmd.Flags().GetString("safe")
	if safeAddress == "" {
		safeAddress = os.Getenv("SAFE_ADDRESS")
	}
	if !common.IsHexAddress(safeAddress) {
		return nil, fmt.Errorf("invalid safe address %q, set --safe or SAFE_ADDRESS", safeAddress)
	}

	rpcURL, _ := cmd.Flags().GetString("rpc")
	if rpcURL == "" {
		rpcURL = os.Getenv("RPC_URL")
	}
	if rpcURL == "" {
		return nil, errors.New("no rpc endpoint, set --rpc or RPC_URL")
	}

	return greatapesafe.Connect(cmd.Context(), common.HexToAddress(safeAddress), rpcURL)
}

func loadPrivateKey() (*ecdsa.PrivateKey, error) {
	loadDotEnv()

	pk := os.Getenv("PRIVATE_KEY")
	if pk == "" {
		return nil, errors.New("PRIVATE_KEY not found in .env file")
	}

	return crypto.HexToECDSA(pk)
}

// nonceFlag converts the --nonce flag into the optional nonce the executor
// API takes: nil means "next queued".
func nonceFlag(cmd *cobra.Command) *uint64 {
	if !cmd.Flags().Changed("nonce") {
		return nil
	}

	nonce, _ := cmd.Flags().GetUint64("nonce")

	return &nonce
}

func signPending(ctx context.Context, safe *greatapesafe.Safe, signer greatapesafe.Signer, nonce *uint64) error {
	safe.SetSigner(signer)

	return safe.SignPending(ctx, nonce)
}
