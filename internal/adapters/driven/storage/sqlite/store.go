// Package sqlite provides an embedding store backed by a SQLite database.
// Unlike the file backend, writes are durable as they happen; Save is a
// WAL checkpoint and Load is a no-op.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ansera-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EmbeddingStore = (*Store)(nil)

// Store is a SQLite-backed embedding store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.ansera/data/embeddings.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".ansera", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "embeddings.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert stores a record, rejecting dimension changes on an existing key.
func (s *Store) Upsert(ctx context.Context, rec domain.EmbeddingRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	var existingDim int
	err := s.db.QueryRowContext(ctx,
		"SELECT dimension FROM embeddings WHERE fingerprint = ? AND provider = ? AND model = ?",
		rec.Fingerprint, rec.Provider, rec.Model,
	).Scan(&existingDim)
	switch {
	case err == nil:
		if existingDim != rec.Dimension {
			return fmt.Errorf("upsert %s: stored dimension %d, new dimension %d: %w",
				rec.Fingerprint, existingDim, rec.Dimension, domain.ErrDimensionMismatch)
		}
	case errors.Is(err, sql.ErrNoRows):
		// New record
	default:
		return fmt.Errorf("checking existing record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO embeddings (fingerprint, provider, model, dimension, vector,
			document_id, document_title, position, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint, provider, model) DO UPDATE SET
			vector = excluded.vector,
			document_id = excluded.document_id,
			document_title = excluded.document_title,
			position = excluded.position,
			content = excluded.content
	`, rec.Fingerprint, rec.Provider, rec.Model, rec.Dimension,
		float32SliceToBytes(rec.Vector),
		rec.DocumentID, rec.DocumentTitle, rec.Position, rec.Content)
	if err != nil {
		return fmt.Errorf("upserting embedding: %w", err)
	}
	return nil
}

// Get returns the record for a fingerprint under the given identity.
func (s *Store) Get(ctx context.Context, fingerprint string, id domain.ProviderIdentity) (domain.EmbeddingRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT fingerprint, provider, model, dimension, vector,
			document_id, document_title, position, content
		FROM embeddings
		WHERE fingerprint = ? AND provider = ? AND model = ?
	`, fingerprint, id.Provider, id.Model)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.EmbeddingRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.EmbeddingRecord{}, fmt.Errorf("getting embedding: %w", err)
	}
	return rec, nil
}

// Contains reports whether a fingerprint is cached under the identity.
func (s *Store) Contains(ctx context.Context, fingerprint string, id domain.ProviderIdentity) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM embeddings WHERE fingerprint = ? AND provider = ? AND model = ?",
		fingerprint, id.Provider, id.Model,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking embedding: %w", err)
	}
	return true, nil
}

// Candidates returns every record belonging to the given identity.
func (s *Store) Candidates(ctx context.Context, id domain.ProviderIdentity) ([]domain.EmbeddingRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint, provider, model, dimension, vector,
			document_id, document_title, position, content
		FROM embeddings
		WHERE provider = ? AND model = ?
		ORDER BY document_id, position
	`, id.Provider, id.Model)
	if err != nil {
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var out []domain.EmbeddingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return out, nil
}

// Stats summarises the store contents.
func (s *Store) Stats(ctx context.Context) (domain.IndexStats, error) {
	var stats domain.IndexStats

	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT document_id) FROM embeddings")
	if err := row.Scan(&stats.Records, &stats.DocumentsIndexed); err != nil {
		return domain.IndexStats{}, fmt.Errorf("counting embeddings: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT provider, model FROM embeddings ORDER BY provider, model")
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("listing providers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var provider, model string
		if err := rows.Scan(&provider, &model); err != nil {
			return domain.IndexStats{}, fmt.Errorf("scanning provider: %w", err)
		}
		stats.ProvidersUsed = append(stats.ProvidersUsed,
			domain.ProviderIdentity{Provider: provider, Model: model}.String())
	}
	if err := rows.Err(); err != nil {
		return domain.IndexStats{}, fmt.Errorf("iterating providers: %w", err)
	}
	return stats, nil
}

// Save checkpoints the WAL. Writes are already durable at this point.
func (s *Store) Save(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing: %w", err)
	}
	return nil
}

// Load is a no-op: the database is read in place.
func (s *Store) Load(_ context.Context) error {
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.EmbeddingRecord, error) {
	var rec domain.EmbeddingRecord
	var blob []byte
	if err := row.Scan(&rec.Fingerprint, &rec.Provider, &rec.Model, &rec.Dimension,
		&blob, &rec.DocumentID, &rec.DocumentTitle, &rec.Position, &rec.Content); err != nil {
		return domain.EmbeddingRecord{}, err
	}
	rec.Vector = bytesToFloat32Slice(blob)
	return rec, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if floats == nil {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
