package greatapesafe

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/usbwallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/minanew12/badger-multisig/types"
)

// Signer is a strategy for signing a Safe transaction hash.
type Signer interface {
	// Sign signs the 32-byte Safe transaction hash and returns a 65-byte
	// R || S || V signature.
	Sign(payload []byte) ([]byte, error)
	// GetAddress returns the address of the signer.
	GetAddress() (common.Address, error)
	// EthSign reports whether Sign wraps the payload in the EIP-191
	// personal message prefix. The Safe contract distinguishes the two
	// schemes by the signature's v value.
	EthSign() bool
}

// SafeSignature normalizes a signer's output into the v encoding the Safe
// contract expects: 27/28 for raw ECDSA, 31/32 for eth_sign.
func SafeSignature(signer Signer, hash common.Hash) ([]byte, error) {
	raw, err := signer.Sign(hash.Bytes())
	if err != nil {
		return nil, err
	}

	sig, err := types.NewSignatureFromBytes(raw)
	if err != nil {
		return nil, err
	}

	if signer.EthSign() {
		return sig.ToEthSignBytes(), nil
	}

	if sig.V <= 1 {
		sig.V += types.SignatureVOffset
	}

	return sig.ToBytes(), nil
}

var _ Signer = &PrivateKeySigner{}

// PrivateKeySigner signs payloads using a private key.
type PrivateKeySigner struct {
	pk *ecdsa.PrivateKey
}

// NewPrivateKeySigner creates a new PrivateKeySigner.
func NewPrivateKeySigner(pk *ecdsa.PrivateKey) *PrivateKeySigner {
	return &PrivateKeySigner{pk: pk}
}

// Sign signs the payload directly with the private key, no EIP-191 prefix.
func (s *PrivateKeySigner) Sign(payload []byte) ([]byte, error) {
	return crypto.Sign(payload, s.pk)
}

// GetAddress returns the address of the signer.
func (s *PrivateKeySigner) GetAddress() (common.Address, error) {
	return crypto.PubkeyToAddress(s.pk.PublicKey), nil
}

func (s *PrivateKeySigner) EthSign() bool { return false }

var _ Signer = &LedgerSigner{}

// LedgerSigner signs payloads using a Ledger.
type LedgerSigner struct {
	derivationPath []uint32
}

// NewLedgerSigner creates a new LedgerSigner.
func NewLedgerSigner(derivationPath []uint32) *LedgerSigner {
	return &LedgerSigner{derivationPath: derivationPath}
}

// Sign signs the payload using the first wallet found on a Ledger. The
// device adds the EIP-191 prefix before signing.
func (s *LedgerSigner) Sign(payload []byte) ([]byte, error) {
	wallet, account, err := s.setupLedgerAccount()
	if err != nil {
		return nil, err
	}
	defer wallet.Close()

	return wallet.SignText(account, payload)
}

// GetAddress returns the address of the signer.
func (s *LedgerSigner) GetAddress() (common.Address, error) {
	wallet, account, err := s.setupLedgerAccount()
	if err != nil {
		return common.Address{}, err
	}
	defer wallet.Close()

	return account.Address, nil
}

func (s *LedgerSigner) EthSign() bool { return true }

// setupLedgerAccount loads the wallet and account from the ledger. Caller is responsible for closing the wallet.
func (s *LedgerSigner) setupLedgerAccount() (accounts.Wallet, accounts.Account, error) {
	ledgerhub, err := usbwallet.NewLedgerHub()
	if err != nil {
		return nil, accounts.Account{}, fmt.Errorf("failed to open ledger hub: %w", err)
	}

	wallets := ledgerhub.Wallets()
	if len(wallets) == 0 {
		return nil, accounts.Account{}, errors.New("no wallets found")
	}
	wallet := wallets[0]

	if err = wallet.Open(""); err != nil {
		return nil, accounts.Account{}, fmt.Errorf("failed to open wallet: %w", err)
	}

	account, err := wallet.Derive(s.derivationPath, true)
	if err != nil {
		wallet.Close() // Only close on error since caller won't be able to
		return nil, accounts.Account{}, fmt.Errorf("is your ledger ethereum app open? Failed to derive account: %w derivation path %v", err, s.derivationPath)
	}

	return wallet, account, nil
}

// DefaultFrameRPC is where a local Frame instance listens.
const DefaultFrameRPC = "http://127.0.0.1:1248"

var _ Signer = &FrameSigner{}

// FrameSigner signs payloads through a local Frame instance, which fronts a
// hardware wallet. It doubles as a transaction relay for the
// execute-with-frame flow.
type FrameSigner struct {
	client  *rpc.Client
	account common.Address
}

// NewFrameSigner connects to Frame and uses its first exposed account.
func NewFrameSigner(ctx context.Context, url string) (*FrameSigner, error) {
	if url == "" {
		url = DefaultFrameRPC
	}

	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial frame at %s: %w", url, err)
	}

	var accounts []common.Address
	if err := client.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to list frame accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, errors.New("frame exposed no accounts, is it unlocked?")
	}

	return &FrameSigner{client: client, account: accounts[0]}, nil
}

// Sign asks Frame for an EIP-191 personal_sign over the payload. The
// connected hardware wallet prompts for approval.
func (s *FrameSigner) Sign(payload []byte) ([]byte, error) {
	var hexSig string
	err := s.client.Call(&hexSig, "personal_sign", hexutil.Encode(payload), s.account.Hex())
	if err != nil {
		return nil, fmt.Errorf("frame personal_sign failed: %w", err)
	}

	sig, err := hexutil.Decode(hexSig)
	if err != nil {
		return nil, err
	}
	if len(sig) == types.SignatureBytesLength && sig[types.SignatureBytesLength-1] >= types.SignatureVOffset {
		sig[types.SignatureBytesLength-1] -= types.SignatureVOffset
	}

	return sig, nil
}

// GetAddress returns the address of the signer.
func (s *FrameSigner) GetAddress() (common.Address, error) {
	return s.account, nil
}

func (s *FrameSigner) EthSign() bool { return true }

// SendTransaction relays a transaction through Frame, returning its hash.
// Frame handles gas, nonce and hardware signing.
func (s *FrameSigner) SendTransaction(ctx context.Context, to common.Address, data []byte) (common.Hash, error) {
	var txHash common.Hash
	err := s.client.CallContext(ctx, &txHash, "eth_sendTransaction", map[string]any{
		"from":  s.account,
		"to":    to,
		"value": "0x0",
		"data":  hexutil.Encode(data),
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("frame eth_sendTransaction failed: %w", err)
	}

	return txHash, nil
}
