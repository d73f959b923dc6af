package domain

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrQuotaExceeded},
		{"payment required", http.StatusPaymentRequired, ErrQuotaExceeded},
		{"unauthorised", http.StatusUnauthorized, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, ErrAuthFailed},
		{"server error", http.StatusInternalServerError, ErrTransient},
		{"bad gateway", http.StatusBadGateway, ErrTransient},
		{"unexpected status", http.StatusTeapot, ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.status))
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	err := NewProviderError("openai", http.StatusTooManyRequests, "quota exhausted")

	assert.True(t, errors.Is(err, ErrQuotaExceeded))
	assert.False(t, errors.Is(err, ErrAuthFailed))

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "openai", perr.Provider)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestNewTransportError(t *testing.T) {
	t.Run("network failure is transient", func(t *testing.T) {
		err := NewTransportError("ollama", errors.New("connection refused"))
		assert.True(t, errors.Is(err, ErrTransient))
	})

	t.Run("cancellation passes through", func(t *testing.T) {
		assert.Equal(t, context.Canceled, NewTransportError("ollama", context.Canceled))
		assert.Equal(t, context.DeadlineExceeded, NewTransportError("ollama", context.DeadlineExceeded))
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewProviderError("openai", http.StatusInternalServerError, "")))
	assert.False(t, IsRetryable(NewProviderError("openai", http.StatusTooManyRequests, "")))
	assert.False(t, IsRetryable(NewProviderError("openai", http.StatusUnauthorized, "")))
}

func TestIsFallback(t *testing.T) {
	assert.True(t, IsFallback(ErrQuotaExceeded))
	assert.True(t, IsFallback(ErrAuthFailed))
	assert.True(t, IsFallback(ErrTransient))
	assert.False(t, IsFallback(ErrDimensionMismatch))
	assert.False(t, IsFallback(context.Canceled))
}
