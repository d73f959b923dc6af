package driven

import (
	"context"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// DocumentSource fetches the corpus to index. The pipeline treats text as
// already flattened from whatever native structure the source used.
type DocumentSource interface {
	// FetchDocuments returns every document in the source.
	FetchDocuments(ctx context.Context) ([]domain.Document, error)
}
