// Package file provides a TOML-backed settings store.
// Configuration lives in a TOML file within the ansera config directory.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore reads and writes settings as TOML.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.ansera/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".ansera")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads the persisted settings. A missing file yields the defaults.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading config: %w", err)
	}

	var settings domain.Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing config: %w", err)
	}
	applyDefaults(&settings)
	return settings, nil
}

// applyDefaults fills sections the config file left out.
func applyDefaults(s *domain.Settings) {
	defaults := domain.DefaultSettings()

	if len(s.Embedding) == 0 {
		s.Embedding = defaults.Embedding
	}
	if len(s.LLM) == 0 {
		s.LLM = defaults.LLM
	}
	if s.Source.Type == "" {
		s.Source = defaults.Source
	}
	if s.Storage.Backend == "" {
		s.Storage = defaults.Storage
	}
	if s.Chunking.MaxChars == 0 {
		s.Chunking.MaxChars = defaults.Chunking.MaxChars
	}
	if s.Chunking.OverlapChars == 0 {
		s.Chunking.OverlapChars = defaults.Chunking.OverlapChars
	}
	if s.Chunking.MinChars == 0 {
		s.Chunking.MinChars = defaults.Chunking.MinChars
	}
	if s.Retrieval.TopK == 0 {
		s.Retrieval.TopK = defaults.Retrieval.TopK
	}
	if s.Retrieval.MaxPromptChars == 0 {
		s.Retrieval.MaxPromptChars = defaults.Retrieval.MaxPromptChars
	}
}

// Save writes the settings to the config file.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the config file location.
func (s *ConfigStore) Path() string {
	return s.filePath
}
