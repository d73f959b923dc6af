package driven

import (
	"context"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// LLMService produces generated text from a prompt. Providers are
// stateless per call; no conversation memory is kept.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-4o)
//   - Groq (llama models, OpenAI-compatible API)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Identity returns the provider/model pair.
	Identity() domain.ProviderIdentity

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
