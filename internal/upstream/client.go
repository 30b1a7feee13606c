// internal/upstream/client.go
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

const (
	defaultRequestTimeout = 12 * time.Second
	defaultRetryInterval  = 300 * time.Millisecond
	maxErrorBody          = 512
)

// Client performs JSON requests against one upstream with bounded retries.
type Client struct {
	name          string
	client        *http.Client
	retries       int
	retryInterval time.Duration
	logger        *zap.Logger
}

// Option configures Client.
type Option func(*Client)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		c.retries = n
	}
}

// WithRetryInterval sets the initial backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		c.retryInterval = d
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a client for the named upstream.
func New(name string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		name: name,
		client: &http.Client{
			Timeout: defaultRequestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retryInterval: defaultRetryInterval,
		logger:        logger.Named(name),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the upstream name used in errors and logs.
func (c *Client) Name() string {
	return c.name
}

// GetJSON issues a GET and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, op, url string, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, url, nil, out)
}

// PostJSON marshals body, issues a POST and decodes the JSON answer into out.
func (c *Client) PostJSON(ctx context.Context, op, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, op, http.MethodPost, url, payload, out)
}

func (c *Client) do(ctx context.Context, op, method, url string, payload []byte, out interface{}) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	policy.MaxInterval = c.retryInterval * 10

	notify := func(err error, d time.Duration) {
		c.logger.Debug("Retrying upstream call",
			zap.String("op", op),
			zap.Error(err),
			zap.Duration("backoff", d))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, c.once(ctx, op, method, url, payload, out)
	},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retries+1)),
		backoff.WithNotify(notify))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, types.ErrSourceUnavailable) {
			return types.NewSourceError(c.name, op, 0, ctxErr)
		}
		return err
	}
	return nil
}

// once performs a single attempt. Non-retryable failures are wrapped with
// backoff.Permanent.
func (c *Client) once(ctx context.Context, op, method, url string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return backoff.Permanent(types.NewSourceError(c.name, op, 0, fmt.Errorf("create request: %w", err)))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(types.NewSourceError(c.name, op, 0, ctx.Err()))
		}
		return types.NewSourceError(c.name, op, 0, fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		srcErr := types.NewSourceError(c.name, op, resp.StatusCode, fmt.Errorf("unexpected status, body: %s", bytes.TrimSpace(raw)))
		if retryable(resp.StatusCode) {
			return srcErr
		}
		return backoff.Permanent(srcErr)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return backoff.Permanent(types.NewSourceError(c.name, op, resp.StatusCode, fmt.Errorf("decode response: %w", err)))
	}
	return nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
