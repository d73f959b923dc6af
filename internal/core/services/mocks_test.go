package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
)

// fakeEmbedder returns a fixed deterministic vector per text, or scripted
// errors.
type fakeEmbedder struct {
	identity domain.ProviderIdentity
	dims     int
	err      error // returned while failing
	failures int   // -1 fails forever, n > 0 fails the first n calls
	calls    int
	closed   bool
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func newFakeEmbedder(provider, model string, dims int) *fakeEmbedder {
	return &fakeEmbedder{
		identity: domain.ProviderIdentity{Provider: provider, Model: model},
		dims:     dims,
	}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil && (f.failures < 0 || f.calls <= f.failures) {
		return nil, f.err
	}
	// Cheap deterministic vector derived from the text bytes.
	vec := make([]float32, f.dims)
	for i, b := range []byte(text) {
		vec[i%f.dims] += float32(b) / 255
	}
	return vec, nil
}

func (f *fakeEmbedder) Dimensions() int                   { return f.dims }
func (f *fakeEmbedder) Identity() domain.ProviderIdentity { return f.identity }
func (f *fakeEmbedder) Close() error                      { f.closed = true; return nil }

// fakeLLM records calls and returns a canned answer or a scripted error.
type fakeLLM struct {
	identity domain.ProviderIdentity
	answer   string
	err      error
	calls    int
	prompts  []string
	closed   bool
}

var _ driven.LLMService = (*fakeLLM)(nil)

func newFakeLLM(provider, model, answer string) *fakeLLM {
	return &fakeLLM{
		identity: domain.ProviderIdentity{Provider: provider, Model: model},
		answer:   answer,
	}
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Identity() domain.ProviderIdentity { return f.identity }
func (f *fakeLLM) Close() error                      { f.closed = true; return nil }

// memStore is a minimal in-memory EmbeddingStore for pipeline tests.
type memStore struct {
	mu      sync.Mutex
	records map[string]domain.EmbeddingRecord
	saves   int
}

var _ driven.EmbeddingStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{records: make(map[string]domain.EmbeddingRecord)}
}

func storeKey(fp string, id domain.ProviderIdentity) string {
	return fp + "|" + id.String()
}

func (s *memStore) Upsert(_ context.Context, rec domain.EmbeddingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := storeKey(rec.Fingerprint, rec.Identity())
	if existing, ok := s.records[key]; ok && existing.Dimension != rec.Dimension {
		return domain.ErrDimensionMismatch
	}
	s.records[key] = rec
	return nil
}

func (s *memStore) Get(_ context.Context, fp string, id domain.ProviderIdentity) (domain.EmbeddingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[storeKey(fp, id)]
	if !ok {
		return domain.EmbeddingRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

func (s *memStore) Contains(_ context.Context, fp string, id domain.ProviderIdentity) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[storeKey(fp, id)]
	return ok, nil
}

func (s *memStore) Candidates(_ context.Context, id domain.ProviderIdentity) ([]domain.EmbeddingRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.EmbeddingRecord
	for _, rec := range s.records {
		if rec.Identity() == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *memStore) Stats(_ context.Context) (domain.IndexStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	providers := map[string]bool{}
	docs := map[string]bool{}
	for _, rec := range s.records {
		providers[rec.Identity().String()] = true
		docs[rec.DocumentID] = true
	}
	stats := domain.IndexStats{Records: len(s.records), DocumentsIndexed: len(docs)}
	for p := range providers {
		stats.ProvidersUsed = append(stats.ProvidersUsed, p)
	}
	return stats, nil
}

func (s *memStore) Save(context.Context) error { s.saves++; return nil }
func (s *memStore) Load(context.Context) error { return nil }
func (s *memStore) Close() error               { return nil }
