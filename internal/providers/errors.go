package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingAPIKey marks a provider whose key is absent or still a
// placeholder. Detected before any network call; always terminal.
var ErrMissingAPIKey = errors.New("api key not configured")

// ProviderError is a non-2xx answer from a provider endpoint.
type ProviderError struct {
	Provider string
	Status   int
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
}

// Terminal reports whether retrying the same request is pointless: auth
// failures, unknown models, malformed requests, and quota exhaustion.
// A 429 is terminal because a daily quota does not reset in milliseconds.
func (e *ProviderError) Terminal() bool {
	switch e.Status {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusTooManyRequests:
		return true
	}
	return false
}

// IsTerminal classifies an error from a provider call. Network failures and
// 5xx answers are transient; everything ProviderError marks terminal, plus
// configuration errors, is not worth retrying.
func IsTerminal(err error) bool {
	if errors.Is(err, ErrMissingAPIKey) {
		return true
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Terminal()
	}
	return false
}

// RetryExhaustedError is returned once a provider's retry budget is spent on
// transient failures. The orchestrator treats it as "advance to the next
// provider".
type RetryExhaustedError struct {
	Provider string
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s: retries exhausted after %d attempts: %v", e.Provider, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }
