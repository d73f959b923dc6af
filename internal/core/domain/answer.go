package domain

// RetrievalResult is a single ranked candidate for a query. It is
// ephemeral, produced per query and never persisted.
type RetrievalResult struct {
	// Record is the matched embedding record.
	Record EmbeddingRecord

	// Score is the cosine similarity against the query vector.
	Score float64
}

// SourceRef points at a chunk that contributed to an answer.
type SourceRef struct {
	// DocumentID and Position identify the chunk.
	DocumentID string
	Position   int

	// DocumentTitle is the display title of the source document.
	DocumentTitle string

	// Score is the retrieval score the chunk was ranked with.
	Score float64
}

// Answer is the result of a query: generated text plus the chunks it was
// grounded on. Ephemeral, returned to the caller.
type Answer struct {
	// Text is the generated answer.
	Text string

	// Sources lists the chunks used as context, in rank order.
	Sources []SourceRef

	// EmptyCorpus is true when the store held no candidates for the
	// query's embedding identity and no generation was attempted.
	EmptyCorpus bool
}
