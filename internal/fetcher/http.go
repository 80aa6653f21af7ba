package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/model"
)

// HTTPOptions configures the HTTP client.
type HTTPOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRetries   int
	RateLimiters map[string]*rate.Limiter
}

// HTTPClient implements Client using net/http with retry and per-host rate
// limiting.
type HTTPClient struct {
	client   *http.Client
	opts     HTTPOptions
	limiters map[string]*rate.Limiter
}

// NewHTTPClient creates an HTTPClient with the given options.
func NewHTTPClient(opts HTTPOptions) *HTTPClient {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "parkapi-sources/1.0"
	}
	limiters := make(map[string]*rate.Limiter)
	for k, v := range opts.RateLimiters {
		limiters[k] = v
	}
	return &HTTPClient{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: limiters,
	}
}

// Get implements Client.
func (f *HTTPClient) Get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil, "")
}

// GetAuth implements Client.
func (f *HTTPClient) GetAuth(ctx context.Context, rawURL, token string) (io.ReadCloser, error) {
	return f.do(ctx, http.MethodGet, rawURL, nil, token)
}

// PostJSON implements Client.
func (f *HTTPClient) PostJSON(ctx context.Context, rawURL string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: marshal request body")
	}
	return f.do(ctx, http.MethodPost, rawURL, payload, "")
}

func (f *HTTPClient) do(ctx context.Context, method, rawURL string, body []byte, token string) (io.ReadCloser, error) {
	if err := f.waitLimiter(ctx, rawURL); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			if !sleepBackoff(ctx, attempt) {
				return nil, &model.FetchError{URL: rawURL, Err: ctx.Err()}
			}
			zap.L().Debug("fetcher: retrying request",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
			)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, &model.FetchError{URL: rawURL, Err: err}
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp.Body, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			// Transient; drain and retry.
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = &model.FetchError{URL: rawURL, Status: resp.StatusCode}
		default:
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil, &model.FetchError{URL: rawURL, Status: resp.StatusCode}
		}
	}

	if fe, ok := lastErr.(*model.FetchError); ok {
		return nil, fe
	}
	return nil, &model.FetchError{URL: rawURL, Err: lastErr}
}

// waitLimiter blocks on the per-host rate limiter, if one is configured.
func (f *HTTPClient) waitLimiter(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return &model.FetchError{URL: rawURL, Err: err}
	}
	limiter, ok := f.limiters[u.Host]
	if !ok {
		return nil
	}
	if err := limiter.Wait(ctx); err != nil {
		return &model.FetchError{URL: rawURL, Err: err}
	}
	return nil
}

// sleepBackoff sleeps with exponential backoff plus jitter. Returns false if
// the context was cancelled while sleeping.
func sleepBackoff(ctx context.Context, attempt int) bool {
	backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
	backoff += time.Duration(rand.Int63n(int64(500 * time.Millisecond)))

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
