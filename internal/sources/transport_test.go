package sources

import (
	"io"
	"net/http"
	"strings"
)

// roundTripFunc adapts a function into an http.RoundTripper for stubbing
// upstream responses.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// testHTTPConfig keeps retries and rate limiting out of the way in tests.
func testHTTPConfig() HTTPConfig {
	return HTTPConfig{
		TimeoutSeconds:       5,
		SenateTimeoutSeconds: 5,
		MaxRetries:           1,
		RateLimitRPS:         10000,
	}
}
