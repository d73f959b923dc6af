package driven

import (
	"context"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// EmbeddingService generates vector embeddings from text.
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
//
// Remote implementations own their rate limiting and bounded retry; a call
// either succeeds or returns one classified error, it never hangs past the
// retry ceiling.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	Dimensions() int

	// Identity returns the provider/model pair the vectors belong to.
	// Vectors from different identities are never comparable.
	Identity() domain.ProviderIdentity

	// Close releases resources.
	Close() error
}
