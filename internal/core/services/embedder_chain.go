package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ansera-cli/internal/logger"
)

// Ensure EmbedderChain implements the interface.
var _ driven.EmbeddingService = (*EmbedderChain)(nil)

// EmbedderChain holds an ordered list of embedding providers and downgrades
// through it for the remainder of the session. Once a provider exhausts its
// quota or fails persistently the chain never returns to it: vectors
// produced after the downgrade carry the new provider identity, and switching
// back mid-session would split the index across embedding spaces.
type EmbedderChain struct {
	mu        sync.Mutex
	providers []driven.EmbeddingService
	current   int
}

// NewEmbedderChain creates a chain over the given providers in fallback
// order. At least one provider is required.
func NewEmbedderChain(providers ...driven.EmbeddingService) (*EmbedderChain, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("embedder chain: %w", domain.ErrNoProvider)
	}
	return &EmbedderChain{providers: providers}, nil
}

// Embed generates an embedding with the active provider, advancing to the
// next provider on quota exhaustion, auth failure or persistent transient
// failure. The downgrade is one-way within the session.
func (c *EmbedderChain) Embed(ctx context.Context, text string) ([]float32, error) {
	for {
		provider, ok := c.active()
		if !ok {
			return nil, fmt.Errorf("embedder chain exhausted: %w", domain.ErrNoProvider)
		}

		vec, err := provider.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !domain.IsFallback(err) {
			return nil, err
		}

		c.advance(provider, err)
	}
}

// Dimensions returns the active provider's vector size.
func (c *EmbedderChain) Dimensions() int {
	provider, ok := c.active()
	if !ok {
		return 0
	}
	return provider.Dimensions()
}

// Identity returns the active provider's identity. Everything embedded
// after a downgrade is attributed to the fallback provider.
func (c *EmbedderChain) Identity() domain.ProviderIdentity {
	provider, ok := c.active()
	if !ok {
		return domain.ProviderIdentity{}
	}
	return provider.Identity()
}

// Close closes every provider in the chain.
func (c *EmbedderChain) Close() error {
	var firstErr error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *EmbedderChain) active() (driven.EmbeddingService, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current >= len(c.providers) {
		return nil, false
	}
	return c.providers[c.current], true
}

// advance moves past the given provider unless another goroutine already
// did.
func (c *EmbedderChain) advance(failed driven.EmbeddingService, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current < len(c.providers) && c.providers[c.current] == failed {
		logger.Warn("embedding provider %s failed (%v), falling back", failed.Identity(), cause)
		c.current++
		if c.current < len(c.providers) {
			logger.Info("embedding provider now %s", c.providers[c.current].Identity())
		}
	}
}
