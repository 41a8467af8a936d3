package protocols

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// DefaultHiddenHandsURL is the public Hidden Hands bribe API.
const DefaultHiddenHandsURL = "https://api.hiddenhand.finance"

// Bribe is one claimable reward reported by Hidden Hands, together with the
// merkle proof the reward distributor wants.
type Bribe struct {
	Token       common.Address
	Symbol      string
	Claimable   decimal.Decimal
	Identifier  common.Hash
	Account     common.Address
	Amount      *big.Int
	MerkleProof []common.Hash
}

// HiddenHandsClient fetches claimable bribes for a voter address.
type HiddenHandsClient struct {
	baseURL string
	http    *http.Client
}

func NewHiddenHandsClient(baseURL string) *HiddenHandsClient {
	if baseURL == "" {
		baseURL = DefaultHiddenHandsURL
	}

	return &HiddenHandsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type hhResponse struct {
	Error bool       `json:"error"`
	Data  []hhReward `json:"data"`
}

type hhReward struct {
	Symbol        string `json:"symbol"`
	Token         string `json:"token"`
	Claimable     string `json:"claimable"`
	ClaimMetadata struct {
		Identifier  string   `json:"identifier"`
		Account     string   `json:"account"`
		Amount      string   `json:"amount"`
		MerkleProof []string `json:"merkleProof"`
	} `json:"claimMetadata"`
}

// Rewards returns the claimable bribes for the voter on the given chain.
// Rewards without claim metadata (nothing accrued yet) are skipped.
func (c *HiddenHandsClient) Rewards(ctx context.Context, chainID uint64, voter common.Address) ([]Bribe, error) {
	url := fmt.Sprintf("%s/reward/%d/%s", c.baseURL, chainID, voter.Hex())

	var decoded hhResponse
	err := retry.Do(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return retry.Unrecoverable(reqErr)
			}

			resp, doErr := c.http.Do(req)
			if doErr != nil {
				return doErr
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("hidden hands: unexpected status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&decoded)
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hidden hands rewards: %w", err)
	}
	if decoded.Error {
		return nil, fmt.Errorf("hidden hands: api reported an error for %s", voter.Hex())
	}

	bribes := make([]Bribe, 0, len(decoded.Data))
	for _, reward := range decoded.Data {
		if reward.ClaimMetadata.Amount == "" {
			continue
		}

		claimable, parseErr := decimal.NewFromString(reward.Claimable)
		if parseErr != nil {
			return nil, fmt.Errorf("hidden hands: bad claimable %q for %s: %w", reward.Claimable, reward.Symbol, parseErr)
		}

		amount, ok := new(big.Int).SetString(reward.ClaimMetadata.Amount, 10)
		if !ok {
			return nil, fmt.Errorf("hidden hands: bad amount %q for %s", reward.ClaimMetadata.Amount, reward.Symbol)
		}

		proof := make([]common.Hash, 0, len(reward.ClaimMetadata.MerkleProof))
		for _, node := range reward.ClaimMetadata.MerkleProof {
			proof = append(proof, common.HexToHash(node))
		}

		bribes = append(bribes, Bribe{
			Token:       common.HexToAddress(reward.Token),
			Symbol:      reward.Symbol,
			Claimable:   claimable,
			Identifier:  common.HexToHash(reward.ClaimMetadata.Identifier),
			Account:     common.HexToAddress(reward.ClaimMetadata.Account),
			Amount:      amount,
			MerkleProof: proof,
		})
	}

	return bribes, nil
}
