// internal/helius/client.go
package helius

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/upstream"
)

const sourceName = "helius"

// Client talks to the Helius DAS JSON-RPC endpoint.
type Client struct {
	http      *upstream.Client
	endpoint  string
	requestID atomic.Uint64
	logger    *zap.Logger
}

// rpcRequest is a JSON-RPC 2.0 request with named params.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type tokenAccountsParams struct {
	Mint  string `json:"mint"`
	Limit int    `json:"limit"`
	Page  int    `json:"page"`
}

type tokenAccountsResponse struct {
	Result *struct {
		Total         int            `json:"total"`
		Limit         int            `json:"limit"`
		Page          int            `json:"page"`
		TokenAccounts []tokenAccount `json:"token_accounts"`
	} `json:"result"`
	Error *rpcError `json:"error"`
}

type tokenAccount struct {
	Address         string `json:"address"`
	Mint            string `json:"mint"`
	Owner           string `json:"owner"`
	Amount          uint64 `json:"amount"`
	DelegatedAmount uint64 `json:"delegated_amount"`
	Frozen          bool   `json:"frozen"`
}

// NewClient creates a Helius client. An empty apiKey is a configuration error.
func NewClient(baseURL, apiKey string, logger *zap.Logger, opts ...upstream.Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("helius api key: %w", types.ErrConfigurationMissing)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse helius url: %w", err)
	}
	q := u.Query()
	q.Set("api-key", apiKey)
	u.RawQuery = q.Encode()

	return &Client{
		http:     upstream.New(sourceName, logger, opts...),
		endpoint: u.String(),
		logger:   logger.Named(sourceName),
	}, nil
}

// TokenAccounts returns one page (1-based) of token accounts for mint.
func (c *Client) TokenAccounts(ctx context.Context, mint solana.PublicKey, page, limit int) ([]types.TokenAccount, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  "getTokenAccounts",
		Params: tokenAccountsParams{
			Mint:  mint.String(),
			Limit: limit,
			Page:  page,
		},
	}

	var resp tokenAccountsResponse
	if err := c.http.PostJSON(ctx, "getTokenAccounts", c.endpoint, req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, types.NewSourceError(sourceName, "getTokenAccounts", 0, resp.Error)
	}
	if resp.Result == nil {
		return nil, types.NewSourceError(sourceName, "getTokenAccounts", 0, types.ErrNoDataAvailable)
	}

	accounts := make([]types.TokenAccount, 0, len(resp.Result.TokenAccounts))
	for _, a := range resp.Result.TokenAccounts {
		accounts = append(accounts, types.TokenAccount{
			Address: a.Address,
			Owner:   a.Owner,
			Amount:  a.Amount,
			Frozen:  a.Frozen,
		})
	}

	c.logger.Debug("Token accounts page fetched",
		zap.Int("page", page),
		zap.Int("count", len(accounts)))
	return accounts, nil
}
