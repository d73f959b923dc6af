// Package filesystem reads documents from text files in a local
// directory. Each .txt or .md file becomes one document.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ansera-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source reads documents from a directory tree.
type Source struct {
	dir string
}

// NewSource creates a filesystem document source rooted at dir.
func NewSource(dir string) (*Source, error) {
	if dir == "" {
		return nil, fmt.Errorf("filesystem: directory is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filesystem: %s is not a directory", dir)
	}
	return &Source{dir: dir}, nil
}

// FetchDocuments walks the directory and returns one document per
// .txt or .md file. The path relative to the root is the document ID;
// the file name without extension is the title.
func (s *Source) FetchDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			// Skip hidden directories like .git
			if d.Name() != "." && strings.HasPrefix(d.Name(), ".") && path != s.dir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if ext != ".txt" && ext != ".md" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		docs = append(docs, domain.Document{
			ID:       filepath.ToSlash(rel),
			Title:    strings.TrimSuffix(d.Name(), ext),
			Content:  string(data),
			Revision: info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	logger.Info("filesystem: found %d documents under %s", len(docs), s.dir)
	return docs, nil
}
