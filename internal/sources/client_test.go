package sources

import (
	"context"
	"net/http"
	"testing"
)

func TestGetJSONRetriesOnServerError(t *testing.T) {
	calls := 0
	client := NewClient(ClientConfig{
		MaxRetries:   2,
		RateLimitRPS: 10000,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return jsonResponse(http.StatusInternalServerError, `{}`), nil
			}
			return jsonResponse(http.StatusOK, `{"ok": true}`), nil
		}),
	})

	var out struct {
		OK bool `json:"ok"`
	}
	code, err := client.GetJSON(context.Background(), "https://example.test/data", nil, &out)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK || !out.OK {
		t.Errorf("code = %d, out = %+v", code, out)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls)
	}
}

func TestGetJSONPersistentRateLimit(t *testing.T) {
	calls := 0
	client := NewClient(ClientConfig{
		MaxRetries:   1,
		RateLimitRPS: 10000,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(http.StatusTooManyRequests, `{}`), nil
		}),
	})

	code, err := client.GetJSON(context.Background(), "https://example.test/data", nil, nil)
	if err != nil {
		t.Fatalf("persistent 429 should surface as a status, got error: %v", err)
	}
	if code != http.StatusTooManyRequests {
		t.Errorf("code = %d, want 429", code)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (retries exhausted)", calls)
	}
}

func TestGetJSONNonRetryableStatus(t *testing.T) {
	calls := 0
	client := NewClient(ClientConfig{
		MaxRetries:   3,
		RateLimitRPS: 10000,
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			calls++
			return jsonResponse(http.StatusUnauthorized, `{}`), nil
		}),
	})

	code, err := client.GetJSON(context.Background(), "https://example.test/data", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if code != http.StatusUnauthorized {
		t.Errorf("code = %d, want 401", code)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 401)", calls)
	}
}

func TestGetJSONSetsHeaders(t *testing.T) {
	client := NewClient(ClientConfig{
		RateLimitRPS: 10000,
		Headers:      map[string]string{"x-api-key": "secret"},
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if got := r.Header.Get("x-api-key"); got != "secret" {
				t.Errorf("x-api-key = %q", got)
			}
			if got := r.Header.Get("Accept"); got != "application/json" {
				t.Errorf("Accept = %q", got)
			}
			if got := r.Header.Get("User-Agent"); got == "" {
				t.Error("User-Agent not set")
			}
			return jsonResponse(http.StatusOK, `{}`), nil
		}),
	})

	if _, err := client.GetJSON(context.Background(), "https://example.test/data", nil, nil); err != nil {
		t.Fatal(err)
	}
}
