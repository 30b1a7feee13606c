// internal/stats/assembler.go
package stats

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/tokenstats/internal/coingecko"
	"github.com/rovshanmuradov/tokenstats/internal/jupiter"
	"github.com/rovshanmuradov/tokenstats/internal/logger"
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// PriceFeed is the fast real-time price source.
type PriceFeed interface {
	Quote(ctx context.Context, mint solana.PublicKey) (*jupiter.Quote, error)
}

// MarketFeed is the richer market-metadata source.
type MarketFeed interface {
	Token(ctx context.Context, mint solana.PublicKey) (*jupiter.TokenInfo, error)
}

// SolFeed supplies the SOL/USD reference price.
type SolFeed interface {
	SolPrice(ctx context.Context) (*coingecko.Quote, error)
}

// HolderCounter supplies the distinct-owner count.
type HolderCounter interface {
	HolderCount(ctx context.Context) (*types.HolderCount, error)
}

// Token describes the tracked token.
type Token struct {
	Mint        solana.PublicKey
	Name        string
	Symbol      string
	Decimals    int
	TotalSupply float64
}

// Offline sample figures, returned only in sample mode.
const (
	samplePrice     = 0.000023
	sampleMarketCap = 23000
	sampleHolders   = 1420
	sampleSolPrice  = 21.45
)

// Assembler merges the feeds into one TokenStatistics record.
type Assembler struct {
	token   Token
	price   PriceFeed
	market  MarketFeed
	sol     SolFeed
	holders HolderCounter
	sample  bool
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithSolFeed adds the SOL/USD reference feed.
func WithSolFeed(f SolFeed) Option {
	return func(a *Assembler) { a.sol = f }
}

// WithHolderCounter adds the holder count source. Without it the holder
// count stays nil.
func WithHolderCounter(h HolderCounter) Option {
	return func(a *Assembler) { a.holders = h }
}

// WithOfflineSample switches to the labelled demo figures. No network calls
// are made.
func WithOfflineSample(enabled bool) Option {
	return func(a *Assembler) { a.sample = enabled }
}

// NewAssembler creates an assembler. Either feed may be nil.
func NewAssembler(token Token, price PriceFeed, market MarketFeed, logger *zap.Logger, opts ...Option) *Assembler {
	a := &Assembler{
		token:  token,
		price:  price,
		market: market,
		logger: logger.Named("stats"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble queries every source concurrently and merges whatever succeeded.
// It never fails because of an upstream: unresolved metrics stay nil.
func (a *Assembler) Assemble(ctx context.Context) (*types.TokenStatistics, error) {
	if a.sample {
		return a.sampleStatistics(), nil
	}

	log := logger.WithOperation(a.logger, "assemble_stats")
	defer logger.TrackPerformance(a.logger, "assemble_stats")()

	var (
		quote              *jupiter.Quote
		info               *jupiter.TokenInfo
		sol                *coingecko.Quote
		count              *types.HolderCount
		quoteErr, infoErr  error
		solErr, holdersErr error
	)

	// Branches record their own outcome and never fail the group.
	g, gctx := errgroup.WithContext(ctx)
	if a.price != nil {
		g.Go(func() error {
			quote, quoteErr = a.price.Quote(gctx, a.token.Mint)
			return nil
		})
	}
	if a.market != nil {
		g.Go(func() error {
			info, infoErr = a.market.Token(gctx, a.token.Mint)
			return nil
		})
	}
	if a.sol != nil {
		g.Go(func() error {
			sol, solErr = a.sol.SolPrice(gctx)
			return nil
		})
	}
	if a.holders != nil {
		g.Go(func() error {
			count, holdersErr = a.holders.HolderCount(gctx)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for name, err := range map[string]error{
		"price":   quoteErr,
		"market":  infoErr,
		"sol":     solErr,
		"holders": holdersErr,
	} {
		if err != nil {
			log.Warn("Source failed", zap.String("source", name), zap.Error(err))
		}
	}

	st := Merge(a.token, quote, info)
	if sol != nil {
		st.SolPrice = sol.USD
	}
	if count != nil {
		c := *count
		st.Holders = &c
	}
	st.FetchedAt = a.now()

	if !st.HasData() {
		log.Warn("No source produced data")
	}
	return st, nil
}

// Price resolves the unit price alone: the real-time quote first, then the
// market feed. It returns nil when neither answers.
func (a *Assembler) Price(ctx context.Context) *float64 {
	if a.sample {
		return types.Float(samplePrice)
	}
	if a.price != nil {
		quote, err := a.price.Quote(ctx, a.token.Mint)
		if err == nil && quote.Price != nil {
			return quote.Price
		}
		a.logger.Debug("Real-time price unavailable", zap.Error(err))
	}
	if a.market != nil {
		info, err := a.market.Token(ctx, a.token.Mint)
		if err == nil && info.Price != nil {
			return info.Price
		}
		a.logger.Debug("Market price unavailable", zap.Error(err))
	}
	return nil
}

// Merge combines the feed answers. quote and info may each be nil.
//
// Price and 24h change prefer the real-time quote. Market cap and volume come
// from the market feed; without it market cap is price times total supply and
// volume stays nil.
func Merge(token Token, quote *jupiter.Quote, info *jupiter.TokenInfo) *types.TokenStatistics {
	st := &types.TokenStatistics{
		Address:     token.Mint.String(),
		Name:        token.Name,
		Symbol:      token.Symbol,
		Decimals:    token.Decimals,
		TotalSupply: token.TotalSupply,
	}

	if quote != nil {
		st.Price = quote.Price
		st.PriceChange24h = quote.PriceChange24h
	}
	if info != nil {
		if st.Price == nil {
			st.Price = info.Price
		}
		if st.PriceChange24h == nil {
			st.PriceChange24h = info.PriceChange24h
		}
		st.MarketCap = info.MarketCap
		st.Volume24h = info.Volume24h
		if info.Name != "" {
			st.Name = info.Name
		}
		if info.Symbol != "" {
			st.Symbol = info.Symbol
		}
	}
	if st.MarketCap == nil && st.Price != nil {
		st.MarketCap = types.Float(*st.Price * token.TotalSupply)
	}
	return st
}

func (a *Assembler) sampleStatistics() *types.TokenStatistics {
	return &types.TokenStatistics{
		Address:     a.token.Mint.String(),
		Name:        a.token.Name,
		Symbol:      a.token.Symbol,
		Decimals:    a.token.Decimals,
		TotalSupply: a.token.TotalSupply,
		Price:       types.Float(samplePrice),
		MarketCap:   types.Float(sampleMarketCap),
		SolPrice:    types.Float(sampleSolPrice),
		Holders:     &types.HolderCount{Value: sampleHolders},
		Sample:      true,
		FetchedAt:   a.now(),
	}
}
