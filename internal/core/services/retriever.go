package services

import (
	"math"
	"sort"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// Retriever ranks cached chunk vectors against a query vector by cosine
// similarity. Brute-force over the full candidate set; at this corpus
// scale no approximate index is warranted.
type Retriever struct{}

// NewRetriever creates a retriever.
func NewRetriever() *Retriever {
	return &Retriever{}
}

// Retrieve returns the top k candidates ranked by descending similarity to
// the query vector. Candidates whose provider identity differs from the
// query's are excluded: mixing embedding spaces produces meaningless
// scores. Ties break by ascending (DocumentID, Position) for determinism.
func (r *Retriever) Retrieve(
	query []float32, id domain.ProviderIdentity, candidates []domain.EmbeddingRecord, k int,
) []domain.RetrievalResult {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	results := make([]domain.RetrievalResult, 0, len(candidates))
	for _, rec := range candidates {
		if rec.Identity() != id {
			continue
		}
		results = append(results, domain.RetrievalResult{
			Record: rec,
			Score:  CosineSimilarity(query, rec.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		a, b := results[i].Record, results[j].Record
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		return a.Position < b.Position
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}

// CosineSimilarity computes dot(a,b) / (norm(a) * norm(b)). A zero-norm
// vector yields 0 by convention, never a division by zero. Length
// mismatches also score 0: they indicate incomparable vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
