package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

func TestNewEmbedderChain_RequiresProvider(t *testing.T) {
	_, err := NewEmbedderChain()
	assert.ErrorIs(t, err, domain.ErrNoProvider)
}

func TestEmbedderChain_UsesPrimary(t *testing.T) {
	primary := newFakeEmbedder("openai", "text-embedding-3-small", 4)
	fallback := newFakeEmbedder("ollama", "nomic-embed-text", 4)

	chain, err := NewEmbedderChain(primary, fallback)
	require.NoError(t, err)

	vec, err := chain.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 4)
	assert.Equal(t, primary.identity, chain.Identity())
	assert.Equal(t, 0, fallback.calls)
}

func TestEmbedderChain_QuotaDowngradesSession(t *testing.T) {
	primary := newFakeEmbedder("openai", "text-embedding-3-small", 4)
	primary.err = domain.NewProviderError("openai", http.StatusTooManyRequests, "quota exhausted")
	primary.failures = -1
	fallback := newFakeEmbedder("ollama", "nomic-embed-text", 4)

	chain, err := NewEmbedderChain(primary, fallback)
	require.NoError(t, err)

	// The quota failure must not surface; the chain downgrades and serves
	// the call from the fallback.
	_, err = chain.Embed(context.Background(), "first")
	require.NoError(t, err)
	assert.Equal(t, fallback.identity, chain.Identity())

	// One-way: later calls stay on the fallback without touching the
	// primary again.
	_, err = chain.Embed(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 2, fallback.calls)
	assert.Equal(t, fallback.dims, chain.Dimensions())
}

func TestEmbedderChain_AuthFailureDowngrades(t *testing.T) {
	primary := newFakeEmbedder("openai", "text-embedding-3-small", 4)
	primary.err = domain.NewProviderError("openai", http.StatusUnauthorized, "bad key")
	primary.failures = -1
	fallback := newFakeEmbedder("ollama", "nomic-embed-text", 4)

	chain, err := NewEmbedderChain(primary, fallback)
	require.NoError(t, err)

	_, err = chain.Embed(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, fallback.identity, chain.Identity())
}

func TestEmbedderChain_AllExhausted(t *testing.T) {
	primary := newFakeEmbedder("openai", "text-embedding-3-small", 4)
	primary.err = domain.NewProviderError("openai", http.StatusTooManyRequests, "")
	primary.failures = -1
	fallback := newFakeEmbedder("ollama", "nomic-embed-text", 4)
	fallback.err = domain.NewTransportError("ollama", assert.AnError)
	fallback.failures = -1

	chain, err := NewEmbedderChain(primary, fallback)
	require.NoError(t, err)

	_, err = chain.Embed(context.Background(), "q")
	assert.ErrorIs(t, err, domain.ErrNoProvider)
	assert.Equal(t, domain.ProviderIdentity{}, chain.Identity())
	assert.Equal(t, 0, chain.Dimensions())
}

func TestEmbedderChain_CancellationSurfaces(t *testing.T) {
	primary := newFakeEmbedder("openai", "text-embedding-3-small", 4)
	primary.err = context.Canceled
	primary.failures = -1

	chain, err := NewEmbedderChain(primary)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = chain.Embed(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	// No downgrade on cancellation.
	assert.Equal(t, primary.identity, chain.Identity())
}

func TestEmbedderChain_Close(t *testing.T) {
	primary := newFakeEmbedder("openai", "m", 2)
	fallback := newFakeEmbedder("ollama", "m", 2)

	chain, err := NewEmbedderChain(primary, fallback)
	require.NoError(t, err)
	require.NoError(t, chain.Close())
	assert.True(t, primary.closed)
	assert.True(t, fallback.closed)
}
