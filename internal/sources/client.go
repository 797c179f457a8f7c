package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// ClientConfig tunes the outbound HTTP client for one source.
type ClientConfig struct {
	TimeoutSeconds int     // default 30
	MaxRetries     int     // default 3
	RateLimitRPS   float64 // default 2.0
	Headers        map[string]string
	Transport      http.RoundTripper // overridable for tests
}

// Client is the per-adapter HTTP client: fixed timeout, bounded retry with
// exponential backoff on retryable statuses, and a shared rate limiter.
// Constructed once at adapter startup, read-only thereafter.
type Client struct {
	http       *http.Client
	limiter    *rate.Limiter
	headers    map[string]string
	maxRetries int
}

// NewClient builds a client from config, filling defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.TimeoutSeconds == 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 2.0
	}
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
	}
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": "VettingHub/1.0",
	}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	return &Client{
		http: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
			Transport: transport,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		headers:    headers,
		maxRetries: cfg.MaxRetries,
	}
}

// retryableStatus lists the upstream codes worth retrying on idempotent GETs.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	if t, ok := err.(timeout); ok {
		return t.Timeout()
	}
	return false
}

// GetJSON issues a GET with query parameters and decodes a JSON body into
// out. It returns the final status code; on a non-200 the body is drained
// and out is untouched, letting the adapter map the code onto its error
// contract. A nil out skips decoding.
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	var lastErr error
	lastCode := 0
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// 0.5s, 1s, 2s plus jitter
			backoff := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			jitter := time.Duration(rand.Intn(100)) * time.Millisecond
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return 0, fmt.Errorf("creating request: %w", err)
		}
		if len(params) > 0 {
			req.URL.RawQuery = params.Encode()
		}
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if isTimeout(err) {
				continue
			}
			return 0, err
		}

		if resp.StatusCode == http.StatusOK {
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return resp.StatusCode, nil
			}
			decodeErr := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if decodeErr != nil {
				return resp.StatusCode, fmt.Errorf("decoding response: %w", decodeErr)
			}
			return resp.StatusCode, nil
		}

		code := resp.StatusCode
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if retryableStatus[code] {
			lastCode = code
			lastErr = fmt.Errorf("status code %d", code)
			continue
		}
		return code, nil
	}

	// Retries exhausted. Surface a persistent retryable status to the caller
	// so 429 still maps to the rate-limit message.
	if lastCode != 0 {
		return lastCode, nil
	}
	return 0, fmt.Errorf("max retries exceeded: %w", lastErr)
}
