// Package file provides an embedding store persisted as a single JSON
// snapshot on disk. All reads and writes go through an in-memory map;
// Save serialises the map atomically via a temp file and rename.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EmbeddingStore = (*Store)(nil)

// SchemaVersion is the snapshot format version. Snapshots written with a
// different version are rejected on load rather than silently reinterpreted.
const SchemaVersion = 1

// snapshot is the on-disk shape of the store.
type snapshot struct {
	Version int              `json:"version"`
	Records []snapshotRecord `json:"records"`
}

type snapshotRecord struct {
	Fingerprint   string    `json:"fingerprint"`
	Vector        []float32 `json:"vector"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	Dimension     int       `json:"dimension"`
	DocumentID    string    `json:"document_id"`
	DocumentTitle string    `json:"document_title"`
	Position      int       `json:"position"`
	Content       string    `json:"content"`
}

// Store is a JSON-file-backed embedding store.
type Store struct {
	path string

	mu      sync.RWMutex
	records map[string]domain.EmbeddingRecord
}

// NewStore creates a store persisting to the given file path. The parent
// directory is created if missing. Existing persisted state is not read
// until Load is called.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{
		path:    path,
		records: make(map[string]domain.EmbeddingRecord),
	}, nil
}

func recordKey(fingerprint string, id domain.ProviderIdentity) string {
	return fingerprint + "|" + id.String()
}

// Upsert stores a record, rejecting dimension changes on an existing key.
func (s *Store) Upsert(_ context.Context, rec domain.EmbeddingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(rec.Fingerprint, rec.Identity())
	if existing, ok := s.records[key]; ok && existing.Dimension != rec.Dimension {
		return fmt.Errorf("upsert %s: stored dimension %d, new dimension %d: %w",
			rec.Fingerprint, existing.Dimension, rec.Dimension, domain.ErrDimensionMismatch)
	}
	s.records[key] = rec
	return nil
}

// Get returns the record for a fingerprint under the given identity.
func (s *Store) Get(_ context.Context, fingerprint string, id domain.ProviderIdentity) (domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[recordKey(fingerprint, id)]
	if !ok {
		return domain.EmbeddingRecord{}, domain.ErrNotFound
	}
	return rec, nil
}

// Contains reports whether a fingerprint is cached under the identity.
func (s *Store) Contains(_ context.Context, fingerprint string, id domain.ProviderIdentity) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.records[recordKey(fingerprint, id)]
	return ok, nil
}

// Candidates returns every record belonging to the given identity.
func (s *Store) Candidates(_ context.Context, id domain.ProviderIdentity) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.EmbeddingRecord
	for _, rec := range s.records {
		if rec.Identity() == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Stats summarises the store contents.
func (s *Store) Stats(_ context.Context) (domain.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	providers := make(map[string]struct{})
	documents := make(map[string]struct{})
	for _, rec := range s.records {
		providers[rec.Identity().String()] = struct{}{}
		documents[rec.DocumentID] = struct{}{}
	}

	stats := domain.IndexStats{
		Records:          len(s.records),
		DocumentsIndexed: len(documents),
	}
	for p := range providers {
		stats.ProvidersUsed = append(stats.ProvidersUsed, p)
	}
	sort.Strings(stats.ProvidersUsed)
	return stats, nil
}

// Save writes the current contents to disk atomically.
func (s *Store) Save(_ context.Context) error {
	s.mu.RLock()
	snap := snapshot{Version: SchemaVersion}
	for _, rec := range s.records {
		snap.Records = append(snap.Records, snapshotRecord{
			Fingerprint:   rec.Fingerprint,
			Vector:        rec.Vector,
			Provider:      rec.Provider,
			Model:         rec.Model,
			Dimension:     rec.Dimension,
			DocumentID:    rec.DocumentID,
			DocumentTitle: rec.DocumentTitle,
			Position:      rec.Position,
			Content:       rec.Content,
		})
	}
	s.mu.RUnlock()

	// Stable output makes snapshots diffable.
	sort.Slice(snap.Records, func(i, j int) bool {
		a, b := snap.Records[i], snap.Records[j]
		if a.Fingerprint != b.Fingerprint {
			return a.Fingerprint < b.Fingerprint
		}
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		return a.Model < b.Model
	})

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".ansera-store-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load replaces the in-memory contents from the snapshot on disk. A
// missing snapshot loads an empty store.
func (s *Store) Load(_ context.Context) error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.records = make(map[string]domain.EmbeddingRecord)
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != SchemaVersion {
		return fmt.Errorf("snapshot version %d, expected %d: %w",
			snap.Version, SchemaVersion, domain.ErrSchemaVersion)
	}

	records := make(map[string]domain.EmbeddingRecord, len(snap.Records))
	for _, sr := range snap.Records {
		rec := domain.EmbeddingRecord{
			Fingerprint:   sr.Fingerprint,
			Vector:        sr.Vector,
			Provider:      sr.Provider,
			Model:         sr.Model,
			Dimension:     sr.Dimension,
			DocumentID:    sr.DocumentID,
			DocumentTitle: sr.DocumentTitle,
			Position:      sr.Position,
			Content:       sr.Content,
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("snapshot record %s: %w", sr.Fingerprint, err)
		}
		records[recordKey(rec.Fingerprint, rec.Identity())] = rec
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}
