// internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/rovshanmuradov/tokenstats/internal/coingecko"
	"github.com/rovshanmuradov/tokenstats/internal/config"
	"github.com/rovshanmuradov/tokenstats/internal/geckoterminal"
	"github.com/rovshanmuradov/tokenstats/internal/helius"
	"github.com/rovshanmuradov/tokenstats/internal/holders"
	"github.com/rovshanmuradov/tokenstats/internal/jupiter"
	"github.com/rovshanmuradov/tokenstats/internal/stats"
	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/upstream"
)

const (
	keyStats       = "stats"
	keyHolders     = "holders"
	keyHolderCount = "holder-count"
	keyChartPrefix = "chart:"

	defaultFlightTimeout = 5 * time.Minute
)

// ErrStale is returned when a newer fetch cycle started before this one
// finished. The result is still returned but was not committed.
var ErrStale = errors.New("superseded by a newer fetch")

// StatsAssembler builds the statistics record.
type StatsAssembler interface {
	Assemble(ctx context.Context) (*types.TokenStatistics, error)
	Price(ctx context.Context) *float64
}

// HolderAggregator builds the holder table.
type HolderAggregator interface {
	Aggregate(ctx context.Context, price *float64) (*types.HolderTable, error)
}

// ChartSource returns price history for a range.
type ChartSource interface {
	History(ctx context.Context, pool solana.PublicKey, r types.TimeRange) ([]types.PricePoint, error)
}

// Overview is the landing view: statistics and a chart fetched together.
type Overview struct {
	Stats    *types.TokenStatistics `json:"stats"`
	Range    types.TimeRange        `json:"range"`
	Chart    []types.PricePoint     `json:"chart"`
	ChartErr error                  `json:"-"`
}

// Deps are the collaborators of a Service.
type Deps struct {
	Stats    StatsAssembler
	Holders  HolderAggregator
	Chart    ChartSource
	Pool     solana.PublicKey
	CacheTTL time.Duration

	// FlightTimeout bounds a shared holder enumeration.
	FlightTimeout time.Duration
}

// Service is the statistics-and-holders module consumed by every
// presentation. Stats, Holders and Chart are independently re-triggerable.
type Service struct {
	stats   StatsAssembler
	holders HolderAggregator
	chart   ChartSource
	pool    solana.PublicKey

	cache         *cache.Cache
	group         singleflight.Group
	flightTimeout time.Duration

	statsGen   Tracker
	holdersGen Tracker
	chartGen   Tracker

	logger *zap.Logger
}

// NewWithDeps builds a Service from ready collaborators.
func NewWithDeps(deps Deps, logger *zap.Logger) *Service {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	flight := deps.FlightTimeout
	if flight <= 0 {
		flight = defaultFlightTimeout
	}
	return &Service{
		stats:         deps.Stats,
		holders:       deps.Holders,
		chart:         deps.Chart,
		pool:          deps.Pool,
		cache:         cache.New(ttl, 2*ttl),
		flightTimeout: flight,
		logger:        logger.Named("service"),
	}
}

// New wires the upstream clients described by cfg.
func New(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	mint, err := solana.PublicKeyFromBase58(cfg.TokenAddress)
	if err != nil {
		return nil, fmt.Errorf("token address: %w", err)
	}
	var pool solana.PublicKey
	if cfg.PoolAddress != "" {
		if pool, err = solana.PublicKeyFromBase58(cfg.PoolAddress); err != nil {
			return nil, fmt.Errorf("pool address: %w", err)
		}
	}

	opts := []upstream.Option{
		upstream.WithTimeout(cfg.RequestTimeout),
		upstream.WithRetries(cfg.Retries),
	}

	var source holders.Source
	hc, err := helius.NewClient(cfg.HeliusURL, cfg.HeliusAPIKey, logger, opts...)
	switch {
	case errors.Is(err, types.ErrConfigurationMissing):
		logger.Warn("Helius API key not set, holder data disabled")
	case err != nil:
		return nil, err
	default:
		source = hc
		logger.Info("Holder enumeration enabled", zap.String("rpc", cfg.MaskedHeliusURL()))
	}

	aggregator := holders.NewAggregator(source, holders.Settings{
		Mint:            mint,
		Decimals:        int32(cfg.Decimals),
		TotalSupply:     cfg.TotalSupply,
		MaxPages:        cfg.MaxHolderPages,
		DisplayPageSize: cfg.HoldersPageSize,
		Roles:           cfg.Roles(),
	}, logger)

	s := NewWithDeps(Deps{
		Holders:  aggregator,
		Chart:    geckoterminal.NewClient(cfg.GeckoTerminal, cfg.Network, logger, opts...),
		Pool:     pool,
		CacheTTL: cfg.CacheTTL,
	}, logger)

	statsOpts := []stats.Option{
		stats.WithSolFeed(coingecko.NewClient(cfg.CoinGeckoURL, logger, opts...)),
		stats.WithOfflineSample(cfg.OfflineSample),
	}
	if source != nil {
		statsOpts = append(statsOpts, stats.WithHolderCounter(s))
	}
	s.stats = stats.NewAssembler(stats.Token{
		Mint:        mint,
		Name:        cfg.TokenName,
		Symbol:      cfg.TokenSymbol,
		Decimals:    cfg.Decimals,
		TotalSupply: cfg.TotalSupply,
	},
		jupiter.NewPriceClient(cfg.JupiterPriceURL, logger, opts...),
		jupiter.NewTokenClient(cfg.JupiterTokenURL, logger, opts...),
		logger, statsOpts...)

	return s, nil
}

// Invalidate drops every cached result so the next call refetches.
// Enumerations already in flight finish but their results go stale.
func (s *Service) Invalidate() {
	s.cache.Flush()
	s.group.Forget(keyHolders)
	s.group.Forget(keyHolderCount)
}

// Stats returns the statistics record, from cache when fresh.
func (s *Service) Stats(ctx context.Context) (*types.TokenStatistics, error) {
	if v, ok := s.cache.Get(keyStats); ok {
		return v.(*types.TokenStatistics), nil
	}

	gen := s.statsGen.Begin()
	st, err := s.stats.Assemble(ctx)
	if err != nil {
		return nil, err
	}
	st.Generation = gen

	if !s.statsGen.IsCurrent(gen) {
		s.logger.Debug("Discarding stale statistics", zap.Uint64("generation", gen))
		return st, ErrStale
	}
	s.cache.SetDefault(keyStats, st)
	return st, nil
}

// Holders returns the holder table valued at the current price. Concurrent
// callers share one enumeration.
func (s *Service) Holders(ctx context.Context) (*types.HolderTable, error) {
	if v, ok := s.cache.Get(keyHolders); ok {
		return v.(*types.HolderTable), nil
	}

	v, err := s.shared(ctx, keyHolders, func(ctx context.Context) (interface{}, error) {
		gen := s.holdersGen.Begin()

		var price *float64
		if v, ok := s.cache.Get(keyStats); ok {
			price = v.(*types.TokenStatistics).Price
		} else {
			price = s.stats.Price(ctx)
		}

		table, err := s.holders.Aggregate(ctx, price)
		if err != nil {
			return nil, err
		}
		if !s.holdersGen.IsCurrent(gen) {
			s.logger.Debug("Discarding stale holder table", zap.Uint64("generation", gen))
			return table, ErrStale
		}
		s.cache.SetDefault(keyHolders, table)
		s.cache.SetDefault(keyHolderCount, table.Count)
		return table, nil
	})
	table, _ := v.(*types.HolderTable)
	return table, err
}

// HolderCount returns the distinct-owner count for the statistics record.
// Concurrent callers share one enumeration.
func (s *Service) HolderCount(ctx context.Context) (*types.HolderCount, error) {
	if v, ok := s.cache.Get(keyHolderCount); ok {
		count := v.(types.HolderCount)
		return &count, nil
	}

	v, err := s.shared(ctx, keyHolderCount, func(ctx context.Context) (interface{}, error) {
		table, err := s.holders.Aggregate(ctx, nil)
		if err != nil {
			return nil, err
		}
		s.cache.SetDefault(keyHolderCount, table.Count)
		return table.Count, nil
	})
	if err != nil {
		return nil, err
	}
	count := v.(types.HolderCount)
	return &count, nil
}

// shared runs fn once per key for all concurrent callers. The flight runs
// on a context detached from any single caller and bounded by
// flightTimeout; each caller stops waiting when its own ctx is done.
func (s *Service) shared(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.flightTimeout)
		defer cancel()
		return fn(fctx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Chart returns the price history for r.
func (s *Service) Chart(ctx context.Context, r types.TimeRange) ([]types.PricePoint, error) {
	if s.chart == nil || s.pool.IsZero() {
		return nil, fmt.Errorf("chart: %w", types.ErrConfigurationMissing)
	}
	key := keyChartPrefix + string(r)
	if v, ok := s.cache.Get(key); ok {
		return v.([]types.PricePoint), nil
	}

	gen := s.chartGen.Begin()
	points, err := s.chart.History(ctx, s.pool, r)
	if err != nil {
		return nil, err
	}
	if !s.chartGen.IsCurrent(gen) {
		return points, ErrStale
	}
	s.cache.SetDefault(key, points)
	return points, nil
}

// Overview fetches statistics and the chart concurrently. A chart failure is
// reported in Overview.ChartErr and does not fail the call.
func (s *Service) Overview(ctx context.Context, r types.TimeRange) (*Overview, error) {
	var (
		st                 *types.TokenStatistics
		points             []types.PricePoint
		statsErr, chartErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, statsErr = s.Stats(gctx)
		return nil
	})
	g.Go(func() error {
		points, chartErr = s.Chart(gctx, r)
		return nil
	})
	_ = g.Wait()

	if statsErr != nil && !errors.Is(statsErr, ErrStale) {
		return nil, statsErr
	}
	if errors.Is(chartErr, ErrStale) {
		chartErr = nil
	}
	if chartErr != nil {
		s.logger.Warn("Chart unavailable", zap.String("range", string(r)), zap.Error(chartErr))
	}
	return &Overview{Stats: st, Range: r, Chart: points, ChartErr: chartErr}, nil
}
