package greatapesafe

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when a SafeTx is requested but no calls have
// been recorded on the batch.
var ErrEmptyBatch = errors.New("no calls recorded on the batch")

// ErrNoSnapshot is returned when snapshot deltas are requested before a
// snapshot was taken.
var ErrNoSnapshot = errors.New("no snapshot taken")

// ErrNoSigner is returned when a flow needs a signer but none is configured.
var ErrNoSigner = errors.New("no signer configured")

// PendingTxNotFoundError is returned when no pending service transaction
// matches the requested nonce.
type PendingTxNotFoundError struct {
	Nonce uint64
}

// NewPendingTxNotFoundError creates a new PendingTxNotFoundError.
func NewPendingTxNotFoundError(nonce uint64) *PendingTxNotFoundError {
	return &PendingTxNotFoundError{Nonce: nonce}
}

// Error implements the error interface.
func (e *PendingTxNotFoundError) Error() string {
	return fmt.Sprintf("no pending transaction with nonce %d", e.Nonce)
}

// QuorumNotMetError is returned when execution is attempted before enough
// signatures were collected.
type QuorumNotMetError struct {
	Have int
	Want int
}

// NewQuorumNotMetError creates a new QuorumNotMetError.
func NewQuorumNotMetError(have, want int) *QuorumNotMetError {
	return &QuorumNotMetError{Have: have, Want: want}
}

// Error implements the error interface.
func (e *QuorumNotMetError) Error() string {
	return fmt.Sprintf("quorum not met: have %d of %d required signatures", e.Have, e.Want)
}
