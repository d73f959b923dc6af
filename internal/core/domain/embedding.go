package domain

import (
	"crypto/sha256"
	"encoding/hex"
)

// ProviderIdentity names the provider and model that produced a vector.
// Vectors from different identities live in different embedding spaces and
// must never be compared against each other.
type ProviderIdentity struct {
	// Provider is the service name, e.g. "openai" or "ollama".
	Provider string

	// Model is the model name, e.g. "text-embedding-3-small".
	Model string
}

// String returns the canonical "provider/model" form.
func (id ProviderIdentity) String() string {
	return id.Provider + "/" + id.Model
}

// IsZero returns true if no identity has been set.
func (id ProviderIdentity) IsZero() bool {
	return id.Provider == "" && id.Model == ""
}

// Fingerprint returns the content-addressed key for a chunk text.
// The same text always maps to the same fingerprint, which is what makes
// re-indexing unchanged content a no-cost operation.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EmbeddingRecord is one cached embedding. Records are immutable once
// written; a dimension or identity change on the same fingerprint requires
// a new record rather than an overwrite.
type EmbeddingRecord struct {
	// Fingerprint is the content hash of Content.
	Fingerprint string

	// Vector is the embedding, ordered, of length Dimension.
	Vector []float32

	// Provider and Model identify the embedding space.
	Provider string
	Model    string

	// Dimension equals len(Vector).
	Dimension int

	// DocumentID, DocumentTitle and Position link back to the chunk
	// the vector was computed from.
	DocumentID    string
	DocumentTitle string
	Position      int

	// Content is the chunk text, kept so retrieved records can be fed
	// to answer generation without re-fetching the source.
	Content string
}

// Identity returns the provider identity the record was produced under.
func (r EmbeddingRecord) Identity() ProviderIdentity {
	return ProviderIdentity{Provider: r.Provider, Model: r.Model}
}

// Validate checks the record's internal invariants.
func (r EmbeddingRecord) Validate() error {
	if r.Fingerprint == "" {
		return ErrInvalidRecord
	}
	if r.Dimension != len(r.Vector) {
		return ErrDimensionMismatch
	}
	if r.Provider == "" || r.Model == "" {
		return ErrInvalidRecord
	}
	return nil
}

// IndexSummary reports the outcome of one indexing pass.
type IndexSummary struct {
	// DocumentsIndexed is the number of documents processed.
	DocumentsIndexed int

	// ChunksProcessed is the total number of chunks considered.
	ChunksProcessed int

	// ChunksSkipped is the number of chunks already cached under the
	// active provider identity.
	ChunksSkipped int

	// ChunksEmbedded is the number of newly computed embeddings.
	ChunksEmbedded int
}

// IndexStats describes the current contents of the embedding store.
type IndexStats struct {
	// Records is the total number of cached embeddings.
	Records int

	// ProvidersUsed lists the distinct provider identities present.
	ProvidersUsed []string

	// DocumentsIndexed is the number of distinct documents with at
	// least one cached embedding.
	DocumentsIndexed int
}
