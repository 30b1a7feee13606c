// internal/types/types.go
package types

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TokenAccount is one on-chain token account as returned by the account listing.
// Address is unique within a fetch; Owner is not.
type TokenAccount struct {
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Amount  uint64 `json:"amount"`
	Frozen  bool   `json:"frozen"`
}

// WalletRole tags addresses from the special allow-list.
type WalletRole string

const (
	RoleNone      WalletRole = ""
	RoleLocked    WalletRole = "locked"
	RoleLiquidity WalletRole = "liquidity"
)

// Label returns the human-readable role name.
func (r WalletRole) Label() string {
	switch r {
	case RoleLocked:
		return "Locked"
	case RoleLiquidity:
		return "Liquidity"
	default:
		return ""
	}
}

// HolderSummary is the per-owner reduction over TokenAccount records.
type HolderSummary struct {
	Owner           string          `json:"owner"`
	Balance         decimal.Decimal `json:"balance"`
	Accounts        int             `json:"accounts"`
	Frozen          bool            `json:"frozen"`
	PercentOfSupply float64         `json:"percentOfSupply"`
	ValueUSD        float64         `json:"valueUsd"`
	PriceKnown      bool            `json:"priceKnown"`
	Role            WalletRole      `json:"role,omitempty"`
}

// BalanceFloat returns the balance as float64 for display math.
func (h HolderSummary) BalanceFloat() float64 {
	f, _ := h.Balance.Float64()
	return f
}

// HolderCount is a distinct-owner count that may be a lower bound when
// enumeration stopped early.
type HolderCount struct {
	Value      int  `json:"value"`
	LowerBound bool `json:"lowerBound"`
}

// String renders "5000+" for lower bounds and "5000" otherwise.
func (c HolderCount) String() string {
	s := strconv.Itoa(c.Value)
	if c.LowerBound {
		return s + "+"
	}
	return s
}

// HolderTable is the ranked, classified result of one enumeration.
type HolderTable struct {
	Holders      []HolderSummary `json:"-"`
	Special      []HolderSummary `json:"special"`
	Regular      []HolderSummary `json:"-"`
	Count        HolderCount     `json:"count"`
	Complete     bool            `json:"complete"`
	Incomplete   error           `json:"-"`
	PagesFetched int             `json:"pagesFetched"`
	AccountsSeen int             `json:"accountsSeen"`
	PriceKnown   bool            `json:"priceKnown"`
	PageSize     int             `json:"pageSize"`
	FetchedAt    time.Time       `json:"fetchedAt"`
}

// PageCount returns the number of display pages over regular holders.
func (t *HolderTable) PageCount() int {
	if t.PageSize <= 0 || len(t.Regular) == 0 {
		return 0
	}
	return (len(t.Regular) + t.PageSize - 1) / t.PageSize
}

// Page returns the 1-based display page of regular holders. Out of range
// pages return an empty slice.
func (t *HolderTable) Page(n int) []HolderSummary {
	if n < 1 || t.PageSize <= 0 {
		return nil
	}
	start := (n - 1) * t.PageSize
	if start >= len(t.Regular) {
		return nil
	}
	end := start + t.PageSize
	if end > len(t.Regular) {
		end = len(t.Regular)
	}
	return t.Regular[start:end]
}

// Rank returns the 1-based position of a regular holder on display page n.
func (t *HolderTable) Rank(page, index int) int {
	return (page-1)*t.PageSize + index + 1
}

// TokenStatistics is the headline record for one fetch cycle. Nil metric
// pointers mean "no data" and must never be rendered as zero.
type TokenStatistics struct {
	Address        string       `json:"address"`
	Name           string       `json:"name"`
	Symbol         string       `json:"symbol"`
	Decimals       int          `json:"decimals"`
	TotalSupply    float64      `json:"supply"`
	Price          *float64     `json:"price"`
	MarketCap      *float64     `json:"marketCap"`
	PriceChange24h *float64     `json:"priceChange24h"`
	Volume24h      *float64     `json:"volume24h"`
	SolPrice       *float64     `json:"solPrice"`
	Holders        *HolderCount `json:"holders"`
	Sample         bool         `json:"sample,omitempty"`
	Generation     uint64       `json:"generation"`
	FetchedAt      time.Time    `json:"fetchedAt"`
}

// HasData reports whether any metric was resolved.
func (s *TokenStatistics) HasData() bool {
	return s.Price != nil || s.MarketCap != nil || s.PriceChange24h != nil ||
		s.Volume24h != nil || s.Holders != nil
}

// Candle is one OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PricePoint is the chart projection of a candle.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Price  float64   `json:"price"`
	Volume float64   `json:"volume"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
