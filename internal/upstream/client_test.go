package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

func newTestClient(retries int) *Client {
	return New("test", zap.NewNop(),
		WithRetries(retries),
		WithRetryInterval(time.Millisecond),
		WithTimeout(2*time.Second))
}

func TestGetJSONRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"value": 7}`))
	}))
	defer srv.Close()

	var out struct {
		Value int `json:"value"`
	}
	err := newTestClient(2).GetJSON(context.Background(), "get", srv.URL, &out)
	require.NoError(t, err)
	assert.Equal(t, 7, out.Value)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	err := newTestClient(3).GetJSON(context.Background(), "get", srv.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSourceUnavailable))

	var srcErr *types.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, http.StatusNotFound, srcErr.Status)
	assert.Equal(t, "test", srcErr.Source)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestClient(2).GetJSON(context.Background(), "get", srv.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
	assert.Equal(t, int32(3), calls.Load())
}

func TestPostJSONSendsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	err := newTestClient(0).PostJSON(context.Background(), "post", srv.URL, map[string]string{"a": "b"}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestMalformedBodyIsSourceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out map[string]interface{}
	err := newTestClient(2).GetJSON(context.Background(), "get", srv.URL, &out)
	assert.True(t, errors.Is(err, types.ErrSourceUnavailable))
}
