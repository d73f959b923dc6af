package driving

import (
	"context"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// PipelineService is the retrieval-augmented answering pipeline consumed
// by the CLI: indexing, querying and cache statistics.
type PipelineService interface {
	// Index chunks, embeds and caches the given documents. Already
	// cached chunks are skipped. Cancellable between chunks; a
	// cancelled pass leaves a valid partial cache.
	Index(ctx context.Context, docs []domain.Document) (domain.IndexSummary, error)

	// Query answers a question from the indexed corpus using the top-k
	// most similar chunks. An unindexed corpus yields a graceful
	// empty-corpus answer, not an error.
	Query(ctx context.Context, question string, k int) (domain.Answer, error)

	// Stats reports the embedding store contents.
	Stats(ctx context.Context) (domain.IndexStats, error)
}
