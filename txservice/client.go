// Package txservice is a client for the Safe Transaction Service, the
// off-chain coordination API where multisig transactions are proposed and
// signatures are collected until the threshold is reached.
package txservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-playground/validator/v10"
	"go.uber.org/ratelimit"
)

// ErrNotFound is returned when the service has no record for the requested
// resource, e.g. an address that is not a Safe.
var ErrNotFound = errors.New("txservice: not found")

// StatusError is returned for unexpected HTTP statuses, with the service's
// response body preserved for debugging.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("txservice: unexpected status %d: %s", e.StatusCode, e.Body)
}

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
)

// Client talks to one chain's Safe Transaction Service.
type Client struct {
	baseURL  string
	http     *http.Client
	limiter  ratelimit.Limiter
	validate *validator.Validate
}

// New creates a client for the given service base URL, limited to rps
// requests per second. The public service instances rate limit aggressively,
// so callers iterating over many Safes should keep rps low.
func New(baseURL string, rps int) *Client {
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: defaultTimeout},
		limiter:  ratelimit.New(rps),
		validate: validator.New(),
	}
}

// SafeInfo fetches the service's view of a Safe: nonce, threshold, owners
// and contract version.
func (c *Client) SafeInfo(ctx context.Context, safe common.Address) (*SafeInfo, error) {
	var info SafeInfo
	url := fmt.Sprintf("%s/api/v1/safes/%s/", c.baseURL, safe.Hex())
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// ProposeTransaction posts a new transaction proposal for signature
// collection.
func (c *Client) ProposeTransaction(ctx context.Context, safe common.Address, payload *ProposePayload) error {
	if err := c.validate.Struct(payload); err != nil {
		return fmt.Errorf("txservice: invalid propose payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/safes/%s/multisig-transactions/", c.baseURL, safe.Hex())

	return c.doJSON(ctx, http.MethodPost, url, payload, nil)
}

// PendingTransactions lists the not-yet-executed transactions queued at or
// after the given nonce, ordered by nonce.
func (c *Client) PendingTransactions(ctx context.Context, safe common.Address, nonce uint64) ([]MultisigTransaction, error) {
	var page pagedTransactions
	url := fmt.Sprintf(
		"%s/api/v1/safes/%s/multisig-transactions/?executed=false&nonce__gte=%d&ordering=nonce",
		c.baseURL, safe.Hex(), nonce,
	)
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}

	return page.Results, nil
}

// PostConfirmation appends a signature to an already proposed transaction.
func (c *Client) PostConfirmation(ctx context.Context, safeTxHash common.Hash, signature []byte) error {
	body := map[string]string{"signature": hexutil.Encode(signature)}
	url := fmt.Sprintf("%s/api/v1/multisig-transactions/%s/confirmations/", c.baseURL, safeTxHash.Hex())

	return c.doJSON(ctx, http.MethodPost, url, body, nil)
}

func (c *Client) doJSON(ctx context.Context, method, url string, in, out any) error {
	return retry.Do(
		func() error { return c.doJSONOnce(ctx, method, url, in, out) },
		retry.Context(ctx),
		retry.Attempts(defaultAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) doJSONOnce(ctx context.Context, method, url string, in, out any) error {
	c.limiter.Take()

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// isRetryable retries transport errors and server-side failures, but not
// client errors: a 422 on propose means the payload is wrong and will stay
// wrong.
func isRetryable(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}

	return true
}
