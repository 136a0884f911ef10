package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when the service answers without any text.
var ErrEmptyResponse = errors.New("empty response")

// ServiceError wraps any failure of the completion service. Transient errors
// (rate limits, 5xx, network) may be retried; the rest may not.
type ServiceError struct {
	Provider  string
	Transient bool
	Err       error
}

func (e *ServiceError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s completion failed (%s): %v", e.Provider, kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable ServiceError.
func IsTransient(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Transient
}

func transientStatus(code int) bool {
	return code == 429 || code >= 500
}

// isRateLimited matches the quota errors the Gemini and OpenAI APIs return
// as plain text.
func isRateLimited(msg string) bool {
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "rate limit")
}

func newServiceError(provider string, transient bool, err error) error {
	// Cancellation belongs to the caller, never retry it.
	if errors.Is(err, context.Canceled) {
		transient = false
	}
	return &ServiceError{Provider: provider, Transient: transient, Err: err}
}
