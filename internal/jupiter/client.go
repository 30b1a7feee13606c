// internal/jupiter/client.go
package jupiter

import (
	"context"
	"net/url"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/upstream"
)

// Quote is the real-time price answer for one mint.
type Quote struct {
	Price          *float64
	PriceChange24h *float64
}

// TokenInfo is the market-metadata answer for one mint.
type TokenInfo struct {
	Name           string
	Symbol         string
	Price          *float64
	MarketCap      *float64
	PriceChange24h *float64
	Volume24h      *float64
}

type priceEntry struct {
	USDPrice       *float64 `json:"usdPrice"`
	PriceChange24h *float64 `json:"priceChange24h"`
}

type tokenEntry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	USDPrice *float64 `json:"usdPrice"`
	MCap     *float64 `json:"mcap"`
	Stats24h *struct {
		PriceChange *float64 `json:"priceChange"`
		BuyVolume   *float64 `json:"buyVolume"`
		SellVolume  *float64 `json:"sellVolume"`
	} `json:"stats24h"`
}

// PriceClient queries the Jupiter Price API v3.
type PriceClient struct {
	http    *upstream.Client
	baseURL string
}

// NewPriceClient creates a price feed client.
func NewPriceClient(baseURL string, logger *zap.Logger, opts ...upstream.Option) *PriceClient {
	return &PriceClient{
		http:    upstream.New("jupiter-price", logger, opts...),
		baseURL: baseURL,
	}
}

// Quote returns the current USD price and 24h change of mint.
func (c *PriceClient) Quote(ctx context.Context, mint solana.PublicKey) (*Quote, error) {
	u := c.baseURL + "?" + url.Values{"ids": {mint.String()}}.Encode()

	var resp map[string]*priceEntry
	if err := c.http.GetJSON(ctx, "price", u, &resp); err != nil {
		return nil, err
	}
	entry := resp[mint.String()]
	if entry == nil || entry.USDPrice == nil {
		return nil, types.NewSourceError(c.http.Name(), "price", 0, types.ErrNoDataAvailable)
	}
	return &Quote{Price: entry.USDPrice, PriceChange24h: entry.PriceChange24h}, nil
}

// TokenClient queries the Jupiter Tokens API v2 search.
type TokenClient struct {
	http    *upstream.Client
	baseURL string
}

// NewTokenClient creates a market-metadata feed client.
func NewTokenClient(baseURL string, logger *zap.Logger, opts ...upstream.Option) *TokenClient {
	return &TokenClient{
		http:    upstream.New("jupiter-token", logger, opts...),
		baseURL: baseURL,
	}
}

// Token returns market data for mint. The first search result is used.
func (c *TokenClient) Token(ctx context.Context, mint solana.PublicKey) (*TokenInfo, error) {
	u := c.baseURL + "?" + url.Values{"query": {mint.String()}}.Encode()

	var resp []tokenEntry
	if err := c.http.GetJSON(ctx, "search", u, &resp); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, types.NewSourceError(c.http.Name(), "search", 0, types.ErrNoDataAvailable)
	}

	first := resp[0]
	info := &TokenInfo{
		Name:      first.Name,
		Symbol:    first.Symbol,
		Price:     first.USDPrice,
		MarketCap: first.MCap,
	}
	if s := first.Stats24h; s != nil {
		info.PriceChange24h = s.PriceChange
		if s.BuyVolume != nil || s.SellVolume != nil {
			var volume float64
			if s.BuyVolume != nil {
				volume += *s.BuyVolume
			}
			if s.SellVolume != nil {
				volume += *s.SellVolume
			}
			info.Volume24h = &volume
		}
	}
	return info, nil
}
