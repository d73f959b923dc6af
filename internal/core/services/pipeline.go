package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/ansera-cli/internal/chunker"
	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ansera-cli/internal/logger"
)

// Ensure RAGPipeline implements the interface.
var _ driving.PipelineService = (*RAGPipeline)(nil)

// EmptyCorpusAnswer is returned for queries when no indexed content
// matches the query's embedding identity.
const EmptyCorpusAnswer = "I couldn't find relevant information to answer your question. " +
	"The index may be empty - run 'ansera index' first, or try rephrasing."

// RAGPipeline orchestrates indexing (chunk, embed, cache) and querying
// (embed, retrieve, generate).
type RAGPipeline struct {
	chunker   *chunker.Chunker
	embedder  driven.EmbeddingService
	store     driven.EmbeddingStore
	retriever *Retriever
	answerer  *AnswererChain
	prompts   *PromptBuilder
	genOpts   driven.GenerateOptions
}

// PipelineConfig wires the pipeline's collaborators.
type PipelineConfig struct {
	// Chunker splits documents; nil uses the defaults.
	Chunker *chunker.Chunker

	// Embedder computes vectors, usually an EmbedderChain.
	Embedder driven.EmbeddingService

	// Store caches embeddings.
	Store driven.EmbeddingStore

	// Answerer generates answers.
	Answerer *AnswererChain

	// MaxPromptChars bounds the generation prompt; zero uses the default.
	MaxPromptChars int

	// MaxAnswerTokens bounds generated answers; zero uses 1000.
	MaxAnswerTokens int
}

// NewRAGPipeline creates the pipeline. Embedder, Store and Answerer are
// required.
func NewRAGPipeline(cfg PipelineConfig) (*RAGPipeline, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("pipeline: embedder is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("pipeline: store is required")
	}
	if cfg.Answerer == nil {
		return nil, fmt.Errorf("pipeline: answerer is required")
	}
	if cfg.Chunker == nil {
		cfg.Chunker = chunker.New()
	}
	maxTokens := cfg.MaxAnswerTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}

	return &RAGPipeline{
		chunker:   cfg.Chunker,
		embedder:  cfg.Embedder,
		store:     cfg.Store,
		retriever: NewRetriever(),
		answerer:  cfg.Answerer,
		prompts:   NewPromptBuilder(cfg.MaxPromptChars),
		genOpts:   driven.GenerateOptions{MaxTokens: maxTokens, Temperature: 0.7},
	}, nil
}

// Index chunks every document, skips chunks already cached under the
// active provider identity, embeds the rest and persists the store once at
// the end. Cancellation between chunks leaves a valid partial cache: each
// upsert is an independent safe unit.
func (p *RAGPipeline) Index(ctx context.Context, docs []domain.Document) (domain.IndexSummary, error) {
	logger.Section("Indexing")
	var summary domain.IndexSummary

	for _, doc := range docs {
		chunks := p.chunker.Chunk(doc)
		logger.Debug("document %q: %d chunks", doc.Title, len(chunks))

		for _, ch := range chunks {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			summary.ChunksProcessed++

			fp := domain.Fingerprint(ch.Content)
			identity := p.embedder.Identity()

			cached, err := p.store.Contains(ctx, fp, identity)
			if err != nil {
				return summary, fmt.Errorf("check cache: %w", err)
			}
			if cached {
				summary.ChunksSkipped++
				continue
			}

			vec, err := p.embedder.Embed(ctx, ch.Content)
			if err != nil {
				return summary, fmt.Errorf("embed chunk %d of %q: %w", ch.Position, doc.Title, err)
			}

			// The identity may have downgraded during the call.
			rec := domain.EmbeddingRecord{
				Fingerprint:   fp,
				Vector:        vec,
				Provider:      p.embedder.Identity().Provider,
				Model:         p.embedder.Identity().Model,
				Dimension:     len(vec),
				DocumentID:    ch.DocumentID,
				DocumentTitle: ch.DocumentTitle,
				Position:      ch.Position,
				Content:       ch.Content,
			}
			if err := p.store.Upsert(ctx, rec); err != nil {
				return summary, fmt.Errorf("cache embedding: %w", err)
			}
			summary.ChunksEmbedded++
		}
		summary.DocumentsIndexed++
	}

	if err := p.store.Save(ctx); err != nil {
		return summary, fmt.Errorf("persist store: %w", err)
	}

	logger.Info("indexed %d documents: %d chunks, %d skipped, %d embedded",
		summary.DocumentsIndexed, summary.ChunksProcessed, summary.ChunksSkipped, summary.ChunksEmbedded)
	return summary, nil
}

// Query embeds the question under the current provider identity, ranks the
// matching cached chunks and generates an answer from the top k. An empty
// candidate set returns the graceful empty-corpus answer without invoking
// any answer provider.
func (p *RAGPipeline) Query(ctx context.Context, question string, k int) (domain.Answer, error) {
	logger.Section("Query")

	queryVec, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("embed question: %w", err)
	}
	identity := p.embedder.Identity()

	candidates, err := p.store.Candidates(ctx, identity)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("load candidates: %w", err)
	}
	logger.Debug("%d candidates under identity %s", len(candidates), identity)

	results := p.retriever.Retrieve(queryVec, identity, candidates, k)
	if len(results) == 0 {
		logger.Info("no candidates for identity %s, returning empty-corpus answer", identity)
		return domain.Answer{Text: EmptyCorpusAnswer, EmptyCorpus: true}, nil
	}

	chunks := make([]contextChunk, len(results))
	sources := make([]domain.SourceRef, len(results))
	for i, res := range results {
		chunks[i] = contextChunk{Title: res.Record.DocumentTitle, Text: res.Record.Content}
		sources[i] = domain.SourceRef{
			DocumentID:    res.Record.DocumentID,
			DocumentTitle: res.Record.DocumentTitle,
			Position:      res.Record.Position,
			Score:         res.Score,
		}
	}

	prompt := p.prompts.Build(question, chunks)
	logger.Debug("prompt size: %d chars", len(prompt))

	text, err := p.answerer.Generate(ctx, prompt, p.genOpts)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	return domain.Answer{Text: text, Sources: sources}, nil
}

// Stats delegates to the embedding store.
func (p *RAGPipeline) Stats(ctx context.Context) (domain.IndexStats, error) {
	return p.store.Stats(ctx)
}
