// Package cli implements the ansera command-line interface. Commands are
// thin wrappers that wire configuration into the pipeline service and
// print its results.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/ansera-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/ansera-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/ansera-cli/internal/adapters/driven/embedding/openai"
	groqllm "github.com/custodia-labs/ansera-cli/internal/adapters/driven/llm/groq"
	ollamallm "github.com/custodia-labs/ansera-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/ansera-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/ansera-cli/internal/adapters/driven/source/filesystem"
	"github.com/custodia-labs/ansera-cli/internal/adapters/driven/source/notion"
	storefile "github.com/custodia-labs/ansera-cli/internal/adapters/driven/storage/file"
	storesqlite "github.com/custodia-labs/ansera-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ansera-cli/internal/chunker"
	"github.com/custodia-labs/ansera-cli/internal/core/domain"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ansera-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ansera-cli/internal/core/services"
	"github.com/custodia-labs/ansera-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired lazily by ensureServices; tests
// inject fakes directly.
var (
	pipelineService driving.PipelineService
	documentSource  driven.DocumentSource
	configStore     driven.ConfigStore
	settings        domain.Settings
	closers         []io.Closer
)

var (
	flagVerbose   bool
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "ansera",
	Short: "Index documents and answer questions about them",
	Long: `ansera indexes documents into a local embedding cache and answers
questions about them using retrieval-augmented generation.

Documents come from a Notion database or a local directory. Embeddings
and answers are produced by configurable provider chains (OpenAI, Groq,
Ollama) with automatic fallback.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.ansera)")
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func closeServices() {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("closing service: %v", err)
		}
	}
	closers = nil
}

// ensureServices wires settings into adapters and the pipeline. It is a
// no-op when a pipeline is already present.
func ensureServices() error {
	if pipelineService != nil {
		return nil
	}

	store, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	configStore = store

	settings, err = configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger.Info("config loaded from %s", configStore.Path())

	embedder, err := buildEmbedderChain(settings.Embedding)
	if err != nil {
		return err
	}

	answerer, err := buildAnswererChain(settings.LLM)
	if err != nil {
		return err
	}

	embStore, err := buildEmbeddingStore(settings.Storage)
	if err != nil {
		return err
	}
	closers = append(closers, embStore)

	if err := embStore.Load(context.Background()); err != nil {
		return fmt.Errorf("loading index: %w", err)
	}

	source, err := buildSource(settings.Source)
	if err != nil {
		return err
	}
	documentSource = source

	pipeline, err := services.NewRAGPipeline(services.PipelineConfig{
		Chunker:        buildChunker(settings.Chunking),
		Embedder:       embedder,
		Store:          embStore,
		Answerer:       answerer,
		MaxPromptChars: settings.Retrieval.MaxPromptChars,
	})
	if err != nil {
		return err
	}
	pipelineService = pipeline
	return nil
}

func buildChunker(cfg domain.ChunkingSettings) *chunker.Chunker {
	var opts []chunker.Option
	if cfg.MaxChars > 0 {
		opts = append(opts, chunker.WithMaxChars(cfg.MaxChars))
	}
	if cfg.OverlapChars > 0 {
		opts = append(opts, chunker.WithOverlap(cfg.OverlapChars))
	}
	if cfg.MinChars > 0 {
		opts = append(opts, chunker.WithMinChars(cfg.MinChars))
	}
	return chunker.New(opts...)
}

func buildEmbedderChain(configs []domain.ProviderSettings) (*services.EmbedderChain, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no embedding providers configured")
	}

	var providers []driven.EmbeddingService
	for _, cfg := range configs {
		svc, err := buildEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, svc)
		closers = append(closers, svc)
	}
	return services.NewEmbedderChain(providers...)
}

func buildEmbedder(cfg domain.ProviderSettings) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case domain.AIProviderOpenAI:
		key, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	case domain.AIProviderGroq:
		return nil, fmt.Errorf("groq does not provide an embedding API")
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func buildAnswererChain(configs []domain.ProviderSettings) (*services.AnswererChain, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no answer providers configured")
	}

	var providers []driven.LLMService
	for _, cfg := range configs {
		svc, err := buildAnswerer(cfg)
		if err != nil {
			return nil, err
		}
		providers = append(providers, svc)
		closers = append(closers, svc)
	}
	return services.NewAnswererChain(providers...)
}

func buildAnswerer(cfg domain.ProviderSettings) (driven.LLMService, error) {
	switch cfg.Provider {
	case domain.AIProviderOpenAI:
		key, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.AIProviderGroq:
		key, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return groqllm.NewLLMService(groqllm.Config{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown answer provider %q", cfg.Provider)
	}
}

// apiKeyEnvVars maps providers to their conventional environment variable.
var apiKeyEnvVars = map[domain.AIProvider]string{
	domain.AIProviderOpenAI: "OPENAI_API_KEY",
	domain.AIProviderGroq:   "GROQ_API_KEY",
}

func resolveAPIKey(cfg domain.ProviderSettings) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	envVar := apiKeyEnvVars[cfg.Provider]
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%s: no API key in config and %s is not set", cfg.Provider, envVar)
}

func buildEmbeddingStore(cfg domain.StorageSettings) (driven.EmbeddingStore, error) {
	switch cfg.Backend {
	case domain.StorageFile:
		path := cfg.Path
		if path == "" {
			path = defaultStorePath("embeddings.json")
		}
		return storefile.NewStore(path)
	case domain.StorageSQLite:
		dataDir := cfg.Path
		if dataDir == "" && flagConfigDir != "" {
			dataDir = filepath.Join(flagConfigDir, "data")
		}
		return storesqlite.NewStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func defaultStorePath(name string) string {
	if flagConfigDir != "" {
		return filepath.Join(flagConfigDir, "data", name)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".ansera", "data", name)
}

func buildSource(cfg domain.SourceSettings) (driven.DocumentSource, error) {
	switch cfg.Type {
	case domain.SourceNotion:
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("NOTION_API_KEY")
		}
		return notion.NewSource(notion.Config{
			APIKey:     key,
			DatabaseID: cfg.DatabaseID,
		})
	case domain.SourceFilesystem:
		return filesystem.NewSource(cfg.Dir)
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Type)
	}
}
