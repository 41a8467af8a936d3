package types

import (
	"crypto/ecdsa"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureBytesLength defines the length of the signature in bytes after summing the byte
	// values of R, S, and V.
	SignatureBytesLength = 65

	// SignatureComponentSize defines the size of each signature component (R and S) in bytes.
	SignatureComponentSize = 32

	// SignatureVOffset defines the offset to adjust the recovery id (v) if needed.
	SignatureVOffset = 27

	// SignatureEthSignOffset marks a signature as an eth_sign (EIP-191)
	// signature for the Safe contract's checkSignatures, which expects
	// v in {31, 32} for that scheme.
	SignatureEthSignOffset = 4
)

// Signature represents a signature that has been signed by a private key.
type Signature struct {
	R common.Hash
	S common.Hash
	V uint8
}

// NewSignatureFromBytes creates a new Signature from a byte slice of concatenated R, S, and V
// values.
func NewSignatureFromBytes(sig []byte) (Signature, error) {
	if len(sig) != SignatureBytesLength {
		return Signature{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	return Signature{
		R: common.BytesToHash(sig[:SignatureComponentSize]),
		S: common.BytesToHash(sig[SignatureComponentSize:(SignatureBytesLength - 1)]),
		V: sig[SignatureBytesLength-1],
	}, nil
}

// ToBytes returns the byte representation of the signature.
func (s Signature) ToBytes() []byte {
	return slices.Concat(
		s.R.Bytes(),
		s.S.Bytes(),
		[]byte{s.V},
	)
}

// ToEthSignBytes returns the byte representation of the signature with the
// recovery id shifted into the range the Safe contract uses to recognize
// eth_sign style signatures.
func (s Signature) ToEthSignBytes() []byte {
	v := s.V
	if v <= 1 {
		v += SignatureVOffset
	}
	if v < SignatureVOffset+SignatureEthSignOffset {
		v += SignatureEthSignOffset
	}

	return slices.Concat(
		s.R.Bytes(),
		s.S.Bytes(),
		[]byte{v},
	)
}

// Recover returns the address recovered from the signature and the message hash
func (s Signature) Recover(hash common.Hash) (common.Address, error) {
	pubKey, err := s.RecoverPublicKey(hash)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// RecoverPublicKey returns the public key recovered from the signature and the message hash
func (s Signature) RecoverPublicKey(hash common.Hash) (*ecdsa.PublicKey, error) {
	sig := s.ToBytes()

	// Adjust the recovery id (v) if needed. Safe confirmations carry 27/28
	// (or 31/32 for eth_sign), but `crypto.SigToPub` expects 0 or 1.
	v := sig[SignatureBytesLength-1]
	if v >= SignatureVOffset+SignatureEthSignOffset {
		v -= SignatureEthSignOffset
	}
	if v >= SignatureVOffset {
		v -= SignatureVOffset
	}
	sig[SignatureBytesLength-1] = v

	return crypto.SigToPub(hash.Bytes(), sig)
}
