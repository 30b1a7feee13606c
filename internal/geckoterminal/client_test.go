package geckoterminal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/upstream"
)

var testPool = solana.MustPublicKeyFromBase58("BU3u3cZgywn4B8KWBdpdBoQQzdP4tugjtc9a6Ga2tYbe")

func TestTimeframeFor(t *testing.T) {
	tests := []struct {
		r    types.TimeRange
		want Timeframe
	}{
		{types.Range1H, TimeframeMinute},
		{types.Range6H, TimeframeMinute},
		{types.Range12H, TimeframeMinute},
		{types.Range1D, TimeframeHour},
		{types.Range7D, TimeframeHour},
		{types.RangeAll, TimeframeHour},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			assert.Equal(t, tt.want, TimeframeFor(tt.r))
		})
	}
}

func TestHistory(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/networks/solana/pools/"+testPool.String()+"/ohlcv/hour", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		// Newest first, one row outside the 1D window.
		_, _ = w.Write([]byte(`{"data":{"id":"x","type":"ohlcv_request_response","attributes":{"ohlcv_list":[
			[1699999200, 1.0, 1.2, 0.9, 1.1, 500],
			[1699992000, 0.8, 1.0, 0.7, 0.95, 300],
			[1699800000, 0.5, 0.6, 0.4, 0.55, 100]
		]}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "solana", zap.NewNop(), upstream.WithRetries(0))
	c.now = func() time.Time { return now }

	points, err := c.History(context.Background(), testPool, types.Range1D)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.True(t, points[0].Time.Before(points[1].Time))
	assert.Equal(t, 0.95, points[0].Price)
	assert.Equal(t, 1.1, points[1].Price)
	assert.Equal(t, 500.0, points[1].Volume)
}

func TestCandlesSkipsMalformedRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"attributes":{"ohlcv_list":[[1699999200, 1.0], [1699999260, 1, 2, 0.5, 1.5, 10]]}}}`))
	}))
	defer srv.Close()

	candles, err := NewClient(srv.URL, "solana", zap.NewNop()).Candles(context.Background(), testPool, TimeframeMinute, 10)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, 1.5, candles[0].Close)
	assert.Equal(t, 2.0, candles[0].High)
}

func TestHistoryUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "solana", zap.NewNop()).History(context.Background(), testPool, types.Range7D)
	assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
}
