package sources

import (
	"errors"
	"fmt"
	"net/http"
)

// Error strings are part of the caller-visible contract; tests and the web
// layer match on them.
var (
	ErrQueryRequired = errors.New("Search query is required")
	ErrNotFound      = errors.New("Filing not found")
)

// StatusError maps a non-200 upstream status onto the contract message.
// 401 and 429 get specialized messages; everything else carries the raw code.
func StatusError(code int) error {
	switch code {
	case http.StatusUnauthorized:
		return errors.New("API authentication failed. Check your API key.")
	case http.StatusTooManyRequests:
		return errors.New("API rate limit exceeded. Please try again later.")
	default:
		return fmt.Errorf("API request failed with status code: %d", code)
	}
}

// TransportError wraps a network-level failure (timeout, DNS, reset) for one
// source so the caller sees a single descriptive string, never a panic.
func TransportError(source string, err error) error {
	return fmt.Errorf("Error searching %s: %v", source, err)
}
