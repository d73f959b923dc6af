package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrQuotaExceeded indicates a provider's quota or rate limit was
	// exhausted. Recoverable: triggers provider fallback.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrAuthFailed indicates invalid or missing credentials for a
	// provider. Fatal for that provider; never retried.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrTransient indicates a temporary network or service failure.
	// Retried with bounded backoff before escalating.
	ErrTransient = errors.New("transient failure")

	// ErrDimensionMismatch indicates a vector length disagrees with its
	// declared dimension, or an upsert would change the dimension of an
	// existing record. Fatal: the cache and provider are inconsistent.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrInvalidRecord indicates an embedding record is missing required
	// fields.
	ErrInvalidRecord = errors.New("invalid embedding record")

	// ErrNoProvider indicates every provider in a fallback chain has
	// been exhausted.
	ErrNoProvider = errors.New("no provider available")

	// ErrSchemaVersion indicates a persisted store was written with an
	// unknown schema version and cannot be read safely.
	ErrSchemaVersion = errors.New("unsupported store schema version")

	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// ProviderError is a classified failure from a remote embedding or LLM
// service. It wraps one of the sentinel errors above so callers can decide
// fallback versus fatal escalation with errors.Is.
type ProviderError struct {
	// Provider is the service that failed, e.g. "openai".
	Provider string

	// StatusCode is the HTTP status, when the failure came from a
	// response. Zero for network-level failures.
	StatusCode int

	// Message is the service's error message, when one was returned.
	Message string

	// Kind is the sentinel classification.
	Kind error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Kind
}

// ClassifyStatus maps an HTTP status code from a provider response to the
// error taxonomy. Statuses outside the taxonomy classify as transient so
// they get the bounded retry treatment rather than failing hard.
func ClassifyStatus(status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrQuotaExceeded
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuthFailed
	case status == http.StatusPaymentRequired:
		return ErrQuotaExceeded
	default:
		return ErrTransient
	}
}

// NewProviderError builds a classified provider error from an HTTP status.
func NewProviderError(provider string, status int, message string) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Message:    message,
		Kind:       ClassifyStatus(status),
	}
}

// NewTransportError classifies a request-level failure (no response).
// Context cancellation passes through untouched.
func NewTransportError(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &ProviderError{
		Provider: provider,
		Message:  err.Error(),
		Kind:     ErrTransient,
	}
}

// IsRetryable reports whether an error is worth retrying on the same
// provider. Quota and auth failures are not: quota triggers fallback,
// auth is surfaced immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsFallback reports whether an error should advance a provider chain to
// the next provider.
func IsFallback(err error) bool {
	return errors.Is(err, ErrQuotaExceeded) ||
		errors.Is(err, ErrAuthFailed) ||
		errors.Is(err, ErrTransient)
}
