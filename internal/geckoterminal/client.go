// internal/geckoterminal/client.go
package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
	"github.com/rovshanmuradov/tokenstats/internal/upstream"
)

// Timeframe is the candle granularity accepted by the OHLCV endpoint.
type Timeframe string

const (
	TimeframeMinute Timeframe = "minute"
	TimeframeHour   Timeframe = "hour"
	TimeframeDay    Timeframe = "day"

	maxLimit = 1000
)

// TimeframeFor maps a chart range to a candle granularity.
func TimeframeFor(r types.TimeRange) Timeframe {
	d := r.Duration()
	switch {
	case d < 24*time.Hour:
		return TimeframeMinute
	case d <= 7*24*time.Hour:
		return TimeframeHour
	default:
		return TimeframeDay
	}
}

func (tf Timeframe) step() time.Duration {
	switch tf {
	case TimeframeMinute:
		return time.Minute
	case TimeframeDay:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// Client fetches pool candles from GeckoTerminal.
type Client struct {
	http    *upstream.Client
	baseURL string
	network string
	now     func() time.Time
	logger  *zap.Logger
}

// NewClient creates a client for the given network ("solana").
func NewClient(baseURL, network string, logger *zap.Logger, opts ...upstream.Option) *Client {
	return &Client{
		http:    upstream.New("geckoterminal", logger, opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
		network: network,
		now:     time.Now,
		logger:  logger.Named("geckoterminal"),
	}
}

type ohlcvResponse struct {
	Data struct {
		Attributes struct {
			OHLCVList [][]json.Number `json:"ohlcv_list"`
		} `json:"attributes"`
	} `json:"data"`
}

// Candles returns the pool's candles for tf, oldest first.
func (c *Client) Candles(ctx context.Context, pool solana.PublicKey, tf Timeframe, limit int) ([]types.Candle, error) {
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}
	u := fmt.Sprintf("%s/networks/%s/pools/%s/ohlcv/%s?%s",
		c.baseURL, c.network, pool.String(), tf,
		url.Values{"limit": {strconv.Itoa(limit)}}.Encode())

	var resp ohlcvResponse
	if err := c.http.GetJSON(ctx, "ohlcv", u, &resp); err != nil {
		return nil, err
	}

	candles := make([]types.Candle, 0, len(resp.Data.Attributes.OHLCVList))
	for _, row := range resp.Data.Attributes.OHLCVList {
		candle, err := parseRow(row)
		if err != nil {
			c.logger.Debug("Skipping malformed candle", zap.Error(err))
			continue
		}
		candles = append(candles, candle)
	}
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})
	return candles, nil
}

// History returns close price and volume points covering r, oldest first.
func (c *Client) History(ctx context.Context, pool solana.PublicKey, r types.TimeRange) ([]types.PricePoint, error) {
	tf := TimeframeFor(r)
	limit := int(r.Duration()/tf.step()) + 1

	candles, err := c.Candles(ctx, pool, tf, limit)
	if err != nil {
		return nil, err
	}
	return Project(candles, c.now().Add(-r.Duration())), nil
}

// Project converts candles to price points, dropping those before since.
func Project(candles []types.Candle, since time.Time) []types.PricePoint {
	points := make([]types.PricePoint, 0, len(candles))
	for _, cd := range candles {
		if cd.Time.Before(since) {
			continue
		}
		points = append(points, types.PricePoint{
			Time:   cd.Time,
			Price:  cd.Close,
			Volume: cd.Volume,
		})
	}
	return points
}

// parseRow decodes [timestamp, open, high, low, close, volume].
func parseRow(row []json.Number) (types.Candle, error) {
	if len(row) < 6 {
		return types.Candle{}, fmt.Errorf("short ohlcv row: %d fields", len(row))
	}
	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := row[i].Float64()
		if err != nil {
			return types.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i] = v
	}
	return types.Candle{
		Time:   time.Unix(int64(vals[0]), 0).UTC(),
		Open:   vals[1],
		High:   vals[2],
		Low:    vals[3],
		Close:  vals[4],
		Volume: vals[5],
	}, nil
}
