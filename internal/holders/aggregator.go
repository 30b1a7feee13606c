// internal/holders/aggregator.go
package holders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/logger"
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// AccountsPerPage is the listing page size requested from the source.
const AccountsPerPage = 1000

// Source lists token accounts for a mint, one 1-based page at a time.
type Source interface {
	TokenAccounts(ctx context.Context, mint solana.PublicKey, page, limit int) ([]types.TokenAccount, error)
}

// Settings parameterizes an Aggregator.
type Settings struct {
	Mint            solana.PublicKey
	Decimals        int32
	TotalSupply     float64
	MaxPages        int
	DisplayPageSize int
	Roles           map[string]types.WalletRole
}

// Aggregator enumerates token accounts and reduces them to a ranked holder table.
type Aggregator struct {
	source   Source
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

// NewAggregator creates an aggregator. A nil source means the listing
// credential is missing; Aggregate then reports ErrConfigurationMissing.
func NewAggregator(source Source, settings Settings, logger *zap.Logger) *Aggregator {
	if settings.MaxPages <= 0 {
		settings.MaxPages = 10
	}
	if settings.DisplayPageSize <= 0 {
		settings.DisplayPageSize = 50
	}
	return &Aggregator{
		source:   source,
		settings: settings,
		logger:   logger.Named("holders"),
		now:      time.Now,
	}
}

// Aggregate pages through the listing and builds the holder table. price may
// be nil when no unit price is known.
//
// A failure on the first page, or a listing with no accounts at all, returns
// ErrNoDataAvailable and no table. A
// failure on a later page keeps what was aggregated and marks the table as a
// lower bound.
func (a *Aggregator) Aggregate(ctx context.Context, price *float64) (*types.HolderTable, error) {
	if a.source == nil {
		return nil, fmt.Errorf("holder enumeration: %w", types.ErrConfigurationMissing)
	}

	log := logger.WithOperation(a.logger, "aggregate_holders")
	defer logger.TrackPerformance(a.logger, "aggregate_holders")()

	var (
		accounts   []types.TokenAccount
		pages      int
		complete   = true
		incomplete error
	)

	for page := 1; ; page++ {
		batch, err := a.source.TokenAccounts(ctx, a.settings.Mint, page, AccountsPerPage)
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("%w: first page: %w", types.ErrNoDataAvailable, err)
			}
			log.Warn("Holder enumeration stopped early",
				zap.Int("page", page),
				zap.Int("accounts", len(accounts)),
				zap.Error(err))
			complete = false
			incomplete = fmt.Errorf("%w: page %d: %w", types.ErrEnumerationIncomplete, page, err)
			break
		}

		pages = page
		accounts = append(accounts, batch...)

		if len(batch) < AccountsPerPage {
			break
		}
		if page >= a.settings.MaxPages {
			log.Info("Holder page ceiling reached",
				zap.Int("max_pages", a.settings.MaxPages),
				zap.Int("accounts", len(accounts)))
			complete = false
			incomplete = fmt.Errorf("%w: page ceiling %d reached", types.ErrEnumerationIncomplete, a.settings.MaxPages)
			break
		}
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no token accounts listed", types.ErrNoDataAvailable)
	}

	holders := Reduce(accounts, a.settings.Decimals)
	Valuate(holders, a.settings.TotalSupply, price)
	special, regular := Partition(holders, a.settings.Roles)

	table := &types.HolderTable{
		Holders:      holders,
		Special:      special,
		Regular:      regular,
		Count:        types.HolderCount{Value: len(holders), LowerBound: !complete},
		Complete:     complete,
		Incomplete:   incomplete,
		PagesFetched: pages,
		AccountsSeen: len(accounts),
		PriceKnown:   price != nil,
		PageSize:     a.settings.DisplayPageSize,
		FetchedAt:    a.now(),
	}

	log.Debug("Holder table built",
		zap.Int("pages", pages),
		zap.Int("accounts", len(accounts)),
		zap.Int("holders", len(holders)),
		zap.Bool("complete", complete))
	return table, nil
}

// HolderCount returns the distinct-owner count, enumerating without a price.
func (a *Aggregator) HolderCount(ctx context.Context) (*types.HolderCount, error) {
	table, err := a.Aggregate(ctx, nil)
	if err != nil {
		return nil, err
	}
	count := table.Count
	return &count, nil
}

// IsIncomplete reports whether err marks a partial enumeration.
func IsIncomplete(err error) bool {
	return errors.Is(err, types.ErrEnumerationIncomplete)
}

// Reduce groups accounts by owner, summing decimal-adjusted balances and
// OR-ing frozen flags, and returns the summaries sorted by balance descending.
// Ties keep first-seen order.
func Reduce(accounts []types.TokenAccount, decimals int32) []types.HolderSummary {
	index := make(map[string]int, len(accounts))
	holders := make([]types.HolderSummary, 0, len(accounts))

	for _, acc := range accounts {
		amount := decimal.NewFromUint64(acc.Amount).Shift(-decimals)

		i, ok := index[acc.Owner]
		if !ok {
			index[acc.Owner] = len(holders)
			holders = append(holders, types.HolderSummary{
				Owner:    acc.Owner,
				Balance:  amount,
				Accounts: 1,
				Frozen:   acc.Frozen,
			})
			continue
		}
		h := &holders[i]
		h.Balance = h.Balance.Add(amount)
		h.Accounts++
		h.Frozen = h.Frozen || acc.Frozen
	}

	sortByBalance(holders)
	return holders
}

// Valuate fills share of supply and USD value. With a nil price every value
// is zero and PriceKnown stays false.
func Valuate(holders []types.HolderSummary, totalSupply float64, price *float64) {
	supply := decimal.NewFromFloat(totalSupply)
	hundred := decimal.NewFromInt(100)

	for i := range holders {
		h := &holders[i]
		if !supply.IsZero() {
			h.PercentOfSupply, _ = h.Balance.Div(supply).Mul(hundred).Float64()
		}
		if price != nil {
			h.ValueUSD, _ = h.Balance.Mul(decimal.NewFromFloat(*price)).Float64()
			h.PriceKnown = true
		} else {
			h.ValueUSD = 0
			h.PriceKnown = false
		}
	}
}

// Partition splits ranked holders into allow-listed special wallets and the
// remaining regular holders. Both keep the ranked order. Roles are also
// stamped onto holders.
func Partition(holders []types.HolderSummary, roles map[string]types.WalletRole) (special, regular []types.HolderSummary) {
	special = make([]types.HolderSummary, 0, len(roles))
	regular = make([]types.HolderSummary, 0, len(holders))
	for i := range holders {
		if role, ok := roles[holders[i].Owner]; ok && role != types.RoleNone {
			holders[i].Role = role
			special = append(special, holders[i])
			continue
		}
		regular = append(regular, holders[i])
	}
	return special, regular
}
