package overrides

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxRetries  = 2
	userAgent          = "production-calendar/1.0"
)

// HTTPOptions configures the HTTP client shared by remote providers
type HTTPOptions struct {
	Timeout           time.Duration
	RequestsPerSecond float64

	// MaxRetries bounds retries of 5xx responses and transport errors.
	// Zero uses the default, negative disables retries.
	MaxRetries int
	RetryDelay time.Duration
}

// httpFetcher performs throttled GET requests
type httpFetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

func newHTTPFetcher(opts HTTPOptions, logger *zap.Logger) *httpFetcher {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	maxRetries := opts.MaxRetries
	switch {
	case maxRetries == 0:
		maxRetries = defaultMaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}

	retryDelay := opts.RetryDelay
	if retryDelay == 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &httpFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		limiter:    rate.NewLimiter(limit, 1),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// get fetches url and returns the body of a 200 response. Server errors
// and transport failures are retried with exponential backoff.
func (f *httpFetcher) get(ctx context.Context, url string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryDelay
	policy.MaxElapsedTime = 0

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		var err error
		body, err = f.getOnce(ctx, url)
		return err
	}
	notify := func(err error, wait time.Duration) {
		f.logger.Warn("Fetch failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(f.maxRetries)), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return nil, err
	}
	return body, nil
}

func (f *httpFetcher) getOnce(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	f.logger.Debug("Fetching overrides page", zap.String("url", url))

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to fetch calendar data: %w", err))
		}
		return nil, fmt.Errorf("failed to fetch calendar data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%s returned status %d", url, resp.StatusCode)
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}

// observe records the outcome of one fetch
func observe(provider string, start time.Time, err error) {
	metrics.ProviderFetchDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	metrics.ProviderFetches.WithLabelValues(provider, metrics.ResultLabel(err)).Inc()
}

// override builds an override record for a date of year/month/day
func override(year int, month time.Month, day int, kind calendar.Kind) (calendar.Day, error) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return calendar.Day{}, fmt.Errorf("day %d does not exist in %d-%02d", day, year, month)
	}
	return calendar.NewDay(date).WithKind(kind), nil
}
