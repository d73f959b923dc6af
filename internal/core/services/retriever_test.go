package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

var testIdentity = domain.ProviderIdentity{Provider: "openai", Model: "text-embedding-3-small"}

func record(docID string, pos int, vec []float32) domain.EmbeddingRecord {
	return domain.EmbeddingRecord{
		Fingerprint: domain.Fingerprint(docID + "-" + string(rune('a'+pos))),
		Vector:      vec,
		Provider:    testIdentity.Provider,
		Model:       testIdentity.Model,
		Dimension:   len(vec),
		DocumentID:  docID,
		Position:    pos,
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Run("self similarity is one", func(t *testing.T) {
		v := []float32{0.3, -1.2, 4.7}
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	})

	t.Run("zero norm scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{0, 0}))
	})

	t.Run("length mismatch scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2}))
	})

	t.Run("empty scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	})
}

func TestRetrieve_Ranking(t *testing.T) {
	r := NewRetriever()
	candidates := []domain.EmbeddingRecord{
		record("doc-1", 0, []float32{1, 0}),
		record("doc-1", 1, []float32{0, 1}),
		record("doc-2", 0, []float32{0.7, 0.7}),
	}

	results := r.Retrieve([]float32{0, 1}, testIdentity, candidates, 2)
	require.Len(t, results, 2)

	assert.Equal(t, "doc-1", results[0].Record.DocumentID)
	assert.Equal(t, 1, results[0].Record.Position)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)

	assert.Equal(t, "doc-2", results[1].Record.DocumentID)
	assert.InDelta(t, 0.7/math.Sqrt(0.98), results[1].Score, 1e-9)
}

func TestRetrieve_SortedDescending(t *testing.T) {
	r := NewRetriever()
	candidates := []domain.EmbeddingRecord{
		record("doc-1", 0, []float32{0.2, 0.9}),
		record("doc-1", 1, []float32{0.9, 0.1}),
		record("doc-2", 0, []float32{0.5, 0.5}),
		record("doc-3", 0, []float32{-1, 0}),
	}

	results := r.Retrieve([]float32{1, 0}, testIdentity, candidates, len(candidates))
	require.Len(t, results, len(candidates))
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetrieve_TieBreak(t *testing.T) {
	r := NewRetriever()
	same := []float32{1, 0}
	candidates := []domain.EmbeddingRecord{
		record("doc-b", 1, same),
		record("doc-b", 0, same),
		record("doc-a", 2, same),
	}

	results := r.Retrieve([]float32{1, 0}, testIdentity, candidates, 3)
	require.Len(t, results, 3)
	assert.Equal(t, "doc-a", results[0].Record.DocumentID)
	assert.Equal(t, "doc-b", results[1].Record.DocumentID)
	assert.Equal(t, 0, results[1].Record.Position)
	assert.Equal(t, 1, results[2].Record.Position)
}

func TestRetrieve_KEdgeCases(t *testing.T) {
	r := NewRetriever()
	candidates := []domain.EmbeddingRecord{
		record("doc-1", 0, []float32{1, 0}),
		record("doc-1", 1, []float32{0, 1}),
	}

	t.Run("k zero returns empty", func(t *testing.T) {
		assert.Empty(t, r.Retrieve([]float32{1, 0}, testIdentity, candidates, 0))
	})

	t.Run("k negative returns empty", func(t *testing.T) {
		assert.Empty(t, r.Retrieve([]float32{1, 0}, testIdentity, candidates, -3))
	})

	t.Run("k exceeding candidates returns all", func(t *testing.T) {
		assert.Len(t, r.Retrieve([]float32{1, 0}, testIdentity, candidates, 10), 2)
	})

	t.Run("no candidates returns empty", func(t *testing.T) {
		assert.Empty(t, r.Retrieve([]float32{1, 0}, testIdentity, nil, 5))
	})
}

func TestRetrieve_IdentityFiltering(t *testing.T) {
	r := NewRetriever()
	other := record("doc-9", 0, []float32{0, 1})
	other.Provider = "ollama"
	other.Model = "nomic-embed-text"

	candidates := []domain.EmbeddingRecord{
		record("doc-1", 0, []float32{1, 0}),
		other,
	}

	results := r.Retrieve([]float32{0, 1}, testIdentity, candidates, 10)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].Record.DocumentID)
}
