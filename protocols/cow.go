package protocols

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/minanew12/badger-multisig/bindings"
	"github.com/minanew12/badger-multisig/greatapesafe"
)

// DefaultCowAPIURL is the CoW Protocol order book for mainnet.
const DefaultCowAPIURL = "https://api.cow.fi/mainnet"

// cowOrderValidity is how long placed orders stay fillable.
const cowOrderValidity = time.Hour

const settlementABI = `[
	{"type":"function","name":"setPreSignature","stateMutability":"nonpayable","inputs":[{"name":"orderUid","type":"bytes"},{"name":"signed","type":"bool"}],"outputs":[]}
]`

var settlementParsed = bindings.MustParseABI(settlementABI)

// CowQuote is the order book's priced quote for a sell order.
type CowQuote struct {
	SellToken  common.Address `json:"sellToken"`
	BuyToken   common.Address `json:"buyToken"`
	Receiver   common.Address `json:"receiver"`
	SellAmount string         `json:"sellAmount"`
	BuyAmount  string         `json:"buyAmount"`
	FeeAmount  string         `json:"feeAmount"`
	ValidTo    uint32         `json:"validTo"`
	AppData    string         `json:"appData"`
	Kind       string         `json:"kind"`

	PartiallyFillable bool   `json:"partiallyFillable"`
	SellTokenBalance  string `json:"sellTokenBalance"`
	BuyTokenBalance   string `json:"buyTokenBalance"`
}

// Cow places presigned swap orders on CoW Protocol: quote through the order
// book API, post the order, then approve the vault relayer and mark the
// order signed on the settlement contract from the Safe.
type Cow struct {
	safe *greatapesafe.Safe

	settlement common.Address
	relayer    common.Address

	apiURL string
	http   *http.Client
}

func NewCow(safe *greatapesafe.Safe) (*Cow, error) {
	reg := safe.Registry()

	settlement, err := reg.Contract("cow.settlement")
	if err != nil {
		return nil, err
	}
	relayer, err := reg.Contract("cow.vault_relayer")
	if err != nil {
		return nil, err
	}

	return &Cow{
		safe:       safe,
		settlement: settlement,
		relayer:    relayer,
		apiURL:     DefaultCowAPIURL,
		http:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SetAPIURL overrides the order book endpoint. Used by tests and for
// non-mainnet chains.
func (c *Cow) SetAPIURL(url string) {
	c.apiURL = url
}

// Quote asks the order book to price selling sellAmount of sellToken for
// buyToken, delivered back to the Safe.
func (c *Cow) Quote(ctx context.Context, sellToken, buyToken common.Address, sellAmount *big.Int) (*CowQuote, error) {
	reqBody := map[string]any{
		"sellToken":           sellToken.Hex(),
		"buyToken":            buyToken.Hex(),
		"receiver":            c.safe.Address().Hex(),
		"from":                c.safe.Address().Hex(),
		"kind":                "sell",
		"sellAmountBeforeFee": sellAmount.String(),
		"validTo":             uint32(time.Now().Add(cowOrderValidity).Unix()),
		"signingScheme":       "presign",
	}

	var decoded struct {
		Quote CowQuote `json:"quote"`
	}
	if err := c.postJSON(ctx, "/api/v1/quote", reqBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to fetch cow quote: %w", err)
	}

	return &decoded.Quote, nil
}

// PlaceOrder posts the quoted order to the order book as a presign order
// and returns its uid. The order is not live until SignOrder's batch is
// executed by the Safe.
func (c *Cow) PlaceOrder(ctx context.Context, quote *CowQuote) ([]byte, error) {
	order := map[string]any{
		"sellToken":         quote.SellToken.Hex(),
		"buyToken":          quote.BuyToken.Hex(),
		"receiver":          quote.Receiver.Hex(),
		"sellAmount":        quote.SellAmount,
		"buyAmount":         quote.BuyAmount,
		"feeAmount":         quote.FeeAmount,
		"validTo":           quote.ValidTo,
		"appData":           quote.AppData,
		"kind":              quote.Kind,
		"partiallyFillable": quote.PartiallyFillable,
		"sellTokenBalance":  quote.SellTokenBalance,
		"buyTokenBalance":   quote.BuyTokenBalance,
		"from":              c.safe.Address().Hex(),
		"signingScheme":     "presign",
		"signature":         "0x",
	}

	var uidHex string
	if err := c.postJSON(ctx, "/api/v1/orders", order, &uidHex); err != nil {
		return nil, fmt.Errorf("failed to place cow order: %w", err)
	}

	uid, err := hexutil.Decode(uidHex)
	if err != nil {
		return nil, fmt.Errorf("order book returned malformed uid %q: %w", uidHex, err)
	}

	return uid, nil
}

// ApproveRelayer queues an approval of the vault relayer to pull sellToken.
func (c *Cow) ApproveRelayer(sellToken common.Address, amount *big.Int) error {
	data, err := bindings.PackApprove(c.relayer, amount)
	if err != nil {
		return err
	}

	c.safe.AddCall(sellToken, data)

	return nil
}

// SignOrder queues the setPreSignature call that makes the posted order
// live once the Safe executes it.
func (c *Cow) SignOrder(orderUID []byte) error {
	return record(c.safe, c.settlement, settlementParsed, "setPreSignature", orderUID, true)
}

func (c *Cow) postJSON(ctx context.Context, path string, body, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, bytes.NewReader(encoded))
			if reqErr != nil {
				return retry.Unrecoverable(reqErr)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, doErr := c.http.Do(req)
			if doErr != nil {
				return doErr
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 {
				raw, _ := io.ReadAll(resp.Body)
				err := fmt.Errorf("cow api: status %d: %s", resp.StatusCode, raw)
				if resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			return json.NewDecoder(resp.Body).Decode(out)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
}
