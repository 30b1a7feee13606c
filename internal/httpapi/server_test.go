package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

type fakeBackend struct {
	stats     *types.TokenStatistics
	statsErr  error
	table     *types.HolderTable
	tableErr  error
	points    []types.PricePoint
	chartErr  error
	lastRange types.TimeRange
}

func (f *fakeBackend) Stats(context.Context) (*types.TokenStatistics, error) {
	return f.stats, f.statsErr
}

func (f *fakeBackend) Holders(context.Context) (*types.HolderTable, error) {
	return f.table, f.tableErr
}

func (f *fakeBackend) Chart(_ context.Context, r types.TimeRange) ([]types.PricePoint, error) {
	f.lastRange = r
	return f.points, f.chartErr
}

func serve(t *testing.T, b Backend, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(Config{}, b, zap.NewNop())
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestTokenDataWithExplicitNulls(t *testing.T) {
	b := &fakeBackend{stats: &types.TokenStatistics{
		Address:     "EoLW32eUjN9XibMLEb53CMzLtg9XxnHFU6fbpSukjups",
		Symbol:      "KIRBY",
		Decimals:    6,
		TotalSupply: 1_000_000_000,
		Price:       types.Float(0.00002),
		MarketCap:   types.Float(20000),
		Holders:     &types.HolderCount{Value: 5000, LowerBound: true},
	}}

	rec := serve(t, b, http.MethodGet, "/api/token-data")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "1000000000", body["supply"])
	assert.Equal(t, 0.00002, body["price"])
	assert.Equal(t, 5000.0, body["holders"])
	assert.Equal(t, true, body["holdersLowerBound"])
	assert.Equal(t, "5000+", body["holdersDisplay"])

	// Unknown metrics are present as null, never zero.
	v, ok := body["volume24h"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, body["priceChange24h"])
}

func TestTokenDataWithoutHolders(t *testing.T) {
	b := &fakeBackend{stats: &types.TokenStatistics{}}

	body := decode(t, serve(t, b, http.MethodGet, "/api/token-price"))
	assert.Nil(t, body["holders"])
	assert.Equal(t, "No Data", body["holdersDisplay"])
}

func TestNonGetIsRejected(t *testing.T) {
	rec := serve(t, &fakeBackend{}, http.MethodPost, "/api/token-data")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method Not Allowed", decode(t, rec)["error"])
}

func TestPreflight(t *testing.T) {
	srv := New(Config{}, &fakeBackend{}, zap.NewNop())
	req := httptest.NewRequest(http.MethodOptions, "/api/token-data", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSOnGet(t *testing.T) {
	srv := New(Config{}, &fakeBackend{stats: &types.TokenStatistics{}}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/api/token-data", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json"))
}

func TestTokenHistory(t *testing.T) {
	ts := time.Unix(1_700_000_000, 0)
	b := &fakeBackend{points: []types.PricePoint{{Time: ts, Price: 0.00002, Volume: 12}}}

	rec := serve(t, b, http.MethodGet, "/api/token-history?range=1d")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Range1D, b.lastRange)

	var resp historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Days)
	require.Len(t, resp.Prices, 1)
	assert.Equal(t, ts.UnixMilli(), resp.Prices[0].Timestamp)
}

func TestTokenHistoryBadRange(t *testing.T) {
	rec := serve(t, &fakeBackend{}, http.MethodGet, "/api/token-history?range=3W")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenHistoryUpstreamDown(t *testing.T) {
	b := &fakeBackend{chartErr: types.NewSourceError("geckoterminal", "ohlcv", 500, fmt.Errorf("boom"))}
	rec := serve(t, b, http.MethodGet, "/api/token-history")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, types.Range7D, b.lastRange)
}

func holderTable(n int) *types.HolderTable {
	t := &types.HolderTable{
		Count:      types.HolderCount{Value: n + 1},
		Complete:   true,
		PriceKnown: false,
		PageSize:   50,
		Special: []types.HolderSummary{{
			Owner: "GPshF6WikktzrB9NVWSfLRR2Dpzy11AXX3DKPct4kSN", Balance: decimal.NewFromInt(500_000_000),
			Accounts: 1, PercentOfSupply: 50, Role: types.RoleLocked,
		}},
	}
	for i := 0; i < n; i++ {
		t.Regular = append(t.Regular, types.HolderSummary{
			Owner:    fmt.Sprintf("owner-%d", i),
			Balance:  decimal.NewFromInt(int64(1000 - i)),
			Accounts: 1,
		})
	}
	return t
}

func TestHoldersPaging(t *testing.T) {
	b := &fakeBackend{table: holderTable(75)}

	rec := serve(t, b, http.MethodGet, "/api/holders?page=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp holdersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.PageCount)
	require.Len(t, resp.Holders, 25)
	assert.Equal(t, 51, resp.Holders[0].Rank)
	assert.Nil(t, resp.Holders[0].ValueUSD)
	require.Len(t, resp.Special, 1)
	assert.Equal(t, "locked", resp.Special[0].Role)
	assert.Equal(t, "76", resp.Total)
}

func TestHoldersInvalidPage(t *testing.T) {
	rec := serve(t, &fakeBackend{table: holderTable(1)}, http.MethodGet, "/api/holders?page=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHoldersMissingKey(t *testing.T) {
	b := &fakeBackend{tableErr: fmt.Errorf("holder enumeration: %w", types.ErrConfigurationMissing)}
	rec := serve(t, b, http.MethodGet, "/api/holders")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := serve(t, &fakeBackend{}, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}
