package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog"
)

const DefaultUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/117.0"

type FetcherConfig struct {
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	UserAgent  string
}

func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:    10 * time.Second,
		MaxRetries: 3,
		BaseDelay:  300 * time.Millisecond,
		MaxDelay:   5 * time.Second,
		UserAgent:  DefaultUserAgent,
	}
}

// StatusError is returned for a final non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

type Fetcher struct {
	client    *http.Client
	executor  failsafe.Executor[*http.Response]
	userAgent string
	logger    *zerolog.Logger
}

func NewFetcher(cfg FetcherConfig, logger *zerolog.Logger) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxDelay < cfg.BaseDelay {
		cfg.MaxDelay = cfg.BaseDelay
	}

	policy := retrypolicy.NewBuilder[*http.Response]().
		HandleIf(func(resp *http.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && isRetryableStatus(resp.StatusCode)
		}).
		WithBackoff(cfg.BaseDelay, cfg.MaxDelay).
		WithMaxRetries(cfg.MaxRetries).
		WithJitterFactor(0.1).
		OnRetry(func(e failsafe.ExecutionEvent[*http.Response]) {
			logger.Warn().
				Int("attempt", e.Attempts()).
				Err(e.LastError()).
				Msg("Retrying fetch")
		}).
		Build()

	return &Fetcher{
		client:    &http.Client{Timeout: cfg.Timeout},
		executor:  failsafe.With(policy),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetch returns the body of url, retrying transient failures.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	lastStatus := 0
	resp, err := f.executor.WithContext(ctx).Get(func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		lastStatus = resp.StatusCode
		if isRetryableStatus(resp.StatusCode) {
			// Only the status is needed to decide on a retry.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		return resp, nil
	})
	if err != nil {
		if isRetryableStatus(lastStatus) {
			return nil, fmt.Errorf("%w: %w", &StatusError{URL: url, StatusCode: lastStatus}, err)
		}
		return nil, err
	}

	if isRetryableStatus(resp.StatusCode) {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
