// internal/coingecko/client.go
package coingecko

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/upstream"
)

const solanaID = "solana"

// Quote is a USD price with its 24h change.
type Quote struct {
	USD       *float64
	Change24h *float64
}

// Client queries the CoinGecko simple price endpoint.
type Client struct {
	http    *upstream.Client
	baseURL string
}

// NewClient creates a CoinGecko client rooted at baseURL (".../api/v3").
func NewClient(baseURL string, logger *zap.Logger, opts ...upstream.Option) *Client {
	return &Client{
		http:    upstream.New("coingecko", logger, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// SolPrice returns the SOL/USD quote.
func (c *Client) SolPrice(ctx context.Context) (*Quote, error) {
	return c.Price(ctx, solanaID)
}

// Price returns the USD quote for a CoinGecko coin id.
func (c *Client) Price(ctx context.Context, id string) (*Quote, error) {
	q := url.Values{
		"ids":                 {id},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
	}
	u := c.baseURL + "/simple/price?" + q.Encode()

	var resp map[string]struct {
		USD       *float64 `json:"usd"`
		Change24h *float64 `json:"usd_24h_change"`
	}
	if err := c.http.GetJSON(ctx, "simple/price", u, &resp); err != nil {
		return nil, err
	}
	entry, ok := resp[id]
	if !ok || entry.USD == nil {
		return nil, types.NewSourceError(c.http.Name(), "simple/price", 0, types.ErrNoDataAvailable)
	}
	return &Quote{USD: entry.USD, Change24h: entry.Change24h}, nil
}
