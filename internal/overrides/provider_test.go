package overrides

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/production-calendar/internal/metrics"
	"go.uber.org/zap/zaptest"
)

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := newHTTPFetcher(HTTPOptions{RetryDelay: 10 * time.Millisecond}, zaptest.NewLogger(t))

	body, err := f.get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetcher_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	f := newHTTPFetcher(HTTPOptions{MaxRetries: 1, RetryDelay: 10 * time.Millisecond}, zaptest.NewLogger(t))

	_, err := f.get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, int32(2), calls.Load())
}

func TestHTTPFetcher_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := newHTTPFetcher(HTTPOptions{RetryDelay: 10 * time.Millisecond}, zaptest.NewLogger(t))

	_, err := f.get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestObserve(t *testing.T) {
	before := testutil.ToFloat64(metrics.ProviderFetches.WithLabelValues("observe-test", metrics.ResultError))

	observe("observe-test", time.Now(), assert.AnError)
	observe("observe-test", time.Now(), nil)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ProviderFetches.WithLabelValues("observe-test", metrics.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ProviderFetches.WithLabelValues("observe-test", metrics.ResultOK)))
}

func TestOverride(t *testing.T) {
	d, err := override(2024, time.February, 29, 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = override(2025, time.February, 29, 0)
	assert.Error(t, err)
}
