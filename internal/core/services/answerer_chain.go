package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ansera-cli/internal/logger"
)

// AnswererChain traverses an ordered list of answer providers per request.
// Unlike the embedder chain there is no session state: the next request
// starts from the primary again, since generated text from different
// providers is interchangeable in a way embedding spaces are not.
type AnswererChain struct {
	providers []driven.LLMService
}

// NewAnswererChain creates a chain over the given providers in fallback
// order. At least one provider is required.
func NewAnswererChain(providers ...driven.LLMService) (*AnswererChain, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("answerer chain: %w", domain.ErrNoProvider)
	}
	return &AnswererChain{providers: providers}, nil
}

// Generate tries the same request against each provider in order. Quota,
// auth and transient failures move on to the next provider; when every
// provider fails the combined error is surfaced rather than a partial or
// fabricated answer.
func (c *AnswererChain) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	var errs []error
	for _, provider := range c.providers {
		text, err := provider.Generate(ctx, prompt, opts)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !domain.IsFallback(err) {
			return "", err
		}

		logger.Warn("answer provider %s failed (%v), trying next", provider.Identity(), err)
		errs = append(errs, err)
	}
	return "", fmt.Errorf("all answer providers failed: %w", errors.Join(errs...))
}

// Close closes every provider in the chain.
func (c *AnswererChain) Close() error {
	var firstErr error
	for _, p := range c.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
