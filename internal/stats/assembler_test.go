package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/coingecko"
	"github.com/rovshanmuradov/tokenstats/internal/jupiter"
	"github.com/rovshanmuradov/tokenstats/internal/types"
)

var testToken = Token{
	Mint:        solana.MustPublicKeyFromBase58("EoLW32eUjN9XibMLEb53CMzLtg9XxnHFU6fbpSukjups"),
	Name:        "Kirby",
	Symbol:      "KIRBY",
	Decimals:    6,
	TotalSupply: 1_000_000_000,
}

var errDown = types.NewSourceError("fake", "call", 503, errors.New("down"))

type fakePrice struct {
	quote *jupiter.Quote
	err   error
}

func (f fakePrice) Quote(context.Context, solana.PublicKey) (*jupiter.Quote, error) {
	return f.quote, f.err
}

type fakeMarket struct {
	info *jupiter.TokenInfo
	err  error
}

func (f fakeMarket) Token(context.Context, solana.PublicKey) (*jupiter.TokenInfo, error) {
	return f.info, f.err
}

type fakeSol struct {
	quote *coingecko.Quote
	err   error
}

func (f fakeSol) SolPrice(context.Context) (*coingecko.Quote, error) {
	return f.quote, f.err
}

type fakeCounter struct {
	count *types.HolderCount
	err   error
}

func (f fakeCounter) HolderCount(context.Context) (*types.HolderCount, error) {
	return f.count, f.err
}

func TestAssembleAllSources(t *testing.T) {
	a := NewAssembler(testToken,
		fakePrice{quote: &jupiter.Quote{Price: types.Float(0.00003), PriceChange24h: types.Float(4.2)}},
		fakeMarket{info: &jupiter.TokenInfo{
			Price:          types.Float(0.000029),
			MarketCap:      types.Float(29500),
			PriceChange24h: types.Float(3.9),
			Volume24h:      types.Float(1800),
		}},
		zap.NewNop(),
		WithSolFeed(fakeSol{quote: &coingecko.Quote{USD: types.Float(150)}}),
		WithHolderCounter(fakeCounter{count: &types.HolderCount{Value: 1234}}),
	)

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.00003, *st.Price)
	assert.Equal(t, 4.2, *st.PriceChange24h)
	assert.Equal(t, 29500.0, *st.MarketCap)
	assert.Equal(t, 1800.0, *st.Volume24h)
	assert.Equal(t, 150.0, *st.SolPrice)
	assert.Equal(t, &types.HolderCount{Value: 1234}, st.Holders)
	assert.False(t, st.Sample)
	assert.Equal(t, testToken.Mint.String(), st.Address)
}

func TestAssembleMarketFeedDown(t *testing.T) {
	a := NewAssembler(testToken,
		fakePrice{quote: &jupiter.Quote{Price: types.Float(0.00002)}},
		fakeMarket{err: errDown},
		zap.NewNop())

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)

	require.NotNil(t, st.MarketCap)
	assert.InDelta(t, 0.00002*1_000_000_000, *st.MarketCap, 1e-6)
	assert.Nil(t, st.Volume24h)
	assert.Nil(t, st.PriceChange24h)
}

func TestAssemblePriceFeedDownFallsBack(t *testing.T) {
	a := NewAssembler(testToken,
		fakePrice{err: errDown},
		fakeMarket{info: &jupiter.TokenInfo{
			Price:          types.Float(0.000025),
			PriceChange24h: types.Float(-1.5),
			MarketCap:      types.Float(25000),
		}},
		zap.NewNop())

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.000025, *st.Price)
	assert.Equal(t, -1.5, *st.PriceChange24h)
	assert.Equal(t, 25000.0, *st.MarketCap)
}

func TestAssembleEverythingDown(t *testing.T) {
	a := NewAssembler(testToken,
		fakePrice{err: errDown},
		fakeMarket{err: errDown},
		zap.NewNop(),
		WithSolFeed(fakeSol{err: errDown}),
		WithHolderCounter(fakeCounter{err: types.ErrNoDataAvailable}),
	)

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Nil(t, st.Price)
	assert.Nil(t, st.MarketCap)
	assert.Nil(t, st.Volume24h)
	assert.Nil(t, st.PriceChange24h)
	assert.Nil(t, st.SolPrice)
	assert.Nil(t, st.Holders)
	assert.False(t, st.HasData())
	assert.False(t, st.Sample)
}

func TestAssembleWithoutHolderCounter(t *testing.T) {
	a := NewAssembler(testToken, fakePrice{quote: &jupiter.Quote{Price: types.Float(1)}}, nil, zap.NewNop())

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)
	assert.Nil(t, st.Holders)
}

func TestAssembleLowerBoundHolders(t *testing.T) {
	a := NewAssembler(testToken, nil, nil, zap.NewNop(),
		WithHolderCounter(fakeCounter{count: &types.HolderCount{Value: 10000, LowerBound: true}}))

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st.Holders)
	assert.Equal(t, "10000+", st.Holders.String())
}

func TestAssembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAssembler(testToken, fakePrice{err: context.Canceled}, nil, zap.NewNop())
	_, err := a.Assemble(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOfflineSample(t *testing.T) {
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewAssembler(testToken, fakePrice{err: errDown}, fakeMarket{err: errDown}, zap.NewNop(),
		WithOfflineSample(true))
	a.now = func() time.Time { return fixed }

	st, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.True(t, st.Sample)
	assert.Equal(t, 0.000023, *st.Price)
	assert.Equal(t, 23000.0, *st.MarketCap)
	assert.Equal(t, 1420, st.Holders.Value)
	assert.Equal(t, 21.45, *st.SolPrice)
	assert.Equal(t, fixed, st.FetchedAt)
}

func TestMergePrefersQuote(t *testing.T) {
	st := Merge(testToken,
		&jupiter.Quote{Price: types.Float(2)},
		&jupiter.TokenInfo{Price: types.Float(1), PriceChange24h: types.Float(7), Symbol: "KRB"})

	assert.Equal(t, 2.0, *st.Price)
	assert.Equal(t, 7.0, *st.PriceChange24h)
	assert.Equal(t, "KRB", st.Symbol)
	assert.Equal(t, 2.0*1_000_000_000, *st.MarketCap)
}
