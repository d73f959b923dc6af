package driven

import (
	"context"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// EmbeddingStore is the persisted, deduplicated cache of computed
// embeddings, keyed by (fingerprint, provider, model). It is the only
// durable state in the pipeline.
//
// Implementations serialise writes internally; readers may proceed
// concurrently against a stable snapshot.
type EmbeddingStore interface {
	// Upsert stores a record. Re-upserting an identical key is
	// idempotent; changing the dimension of an existing key fails with
	// domain.ErrDimensionMismatch rather than overwriting.
	Upsert(ctx context.Context, rec domain.EmbeddingRecord) error

	// Get returns the record for a fingerprint under the given
	// identity, or domain.ErrNotFound.
	Get(ctx context.Context, fingerprint string, id domain.ProviderIdentity) (domain.EmbeddingRecord, error)

	// Contains reports whether a fingerprint is cached under the
	// given identity.
	Contains(ctx context.Context, fingerprint string, id domain.ProviderIdentity) (bool, error)

	// Candidates returns every record belonging to the given identity,
	// the ranking population for a query embedded under it.
	Candidates(ctx context.Context, id domain.ProviderIdentity) ([]domain.EmbeddingRecord, error)

	// Stats summarises the store contents.
	Stats(ctx context.Context) (domain.IndexStats, error)

	// Save persists the current contents. Called at minimum after each
	// successful indexing pass; backends that are always durable may
	// make this a checkpoint.
	Save(ctx context.Context) error

	// Load replaces the in-memory contents from persisted state.
	// A missing persisted state loads an empty store.
	Load(ctx context.Context) error

	// Close releases resources.
	Close() error
}
