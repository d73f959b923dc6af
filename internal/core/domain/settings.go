package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or answers.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is the Groq cloud API (OpenAI-compatible).
	AIProviderGroq AIProvider = "groq"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGroq, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// SourceType identifies where documents are fetched from.
type SourceType string

// Available source types.
const (
	// SourceNotion fetches pages from a Notion database.
	SourceNotion SourceType = "notion"

	// SourceFilesystem reads text files from a local directory.
	SourceFilesystem SourceType = "filesystem"
)

// IsValid returns true if the source type is recognised.
func (s SourceType) IsValid() bool {
	return s == SourceNotion || s == SourceFilesystem
}

// StorageBackend identifies the embedding store implementation.
type StorageBackend string

// Available storage backends.
const (
	// StorageFile persists the store as a versioned JSON snapshot.
	StorageFile StorageBackend = "file"

	// StorageSQLite persists the store in a SQLite database.
	StorageSQLite StorageBackend = "sqlite"
)

// IsValid returns true if the storage backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageFile || b == StorageSQLite
}

// ProviderSettings configures one embedding or LLM provider.
type ProviderSettings struct {
	// Provider is the service to use.
	Provider AIProvider `toml:"provider"`

	// Model is the model name. Empty uses the adapter default.
	Model string `toml:"model"`

	// BaseURL overrides the API endpoint (Ollama, compatible APIs).
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey is the API key. Empty falls back to the provider's
	// conventional environment variable.
	APIKey string `toml:"api_key,omitempty"`
}

// IsConfigured returns true if the provider is set up.
func (p ProviderSettings) IsConfigured() bool {
	return p.Provider != ""
}

// SourceSettings configures the document source collaborator.
type SourceSettings struct {
	// Type selects the source.
	Type SourceType `toml:"type"`

	// DatabaseID is the Notion database to query (notion source).
	DatabaseID string `toml:"database_id,omitempty"`

	// APIKey is the Notion integration token (notion source). Empty
	// falls back to NOTION_API_KEY.
	APIKey string `toml:"api_key,omitempty"`

	// Dir is the directory to read documents from (filesystem source).
	Dir string `toml:"dir,omitempty"`
}

// StorageSettings configures the embedding store.
type StorageSettings struct {
	// Backend selects the store implementation.
	Backend StorageBackend `toml:"backend"`

	// Path is the data file or directory. Empty uses the default under
	// the config directory.
	Path string `toml:"path,omitempty"`
}

// ChunkingSettings configures the chunker.
type ChunkingSettings struct {
	// MaxChars is the maximum chunk size in characters.
	MaxChars int `toml:"max_chars"`

	// OverlapChars is the overlap between consecutive chunks.
	OverlapChars int `toml:"overlap_chars"`

	// MinChars drops chunks whose trimmed length is below this.
	MinChars int `toml:"min_chars"`
}

// RetrievalSettings configures querying.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per query.
	TopK int `toml:"top_k"`

	// MaxPromptChars bounds the combined prompt size.
	MaxPromptChars int `toml:"max_prompt_chars"`
}

// Settings is the full configuration persisted to the config file.
type Settings struct {
	// Embedding is the ordered embedding provider list; the first entry
	// is the primary, later entries are session fallbacks.
	Embedding []ProviderSettings `toml:"embedding"`

	// LLM is the ordered answer provider list; later entries are
	// per-request fallbacks.
	LLM []ProviderSettings `toml:"llm"`

	Source    SourceSettings    `toml:"source"`
	Storage   StorageSettings   `toml:"storage"`
	Chunking  ChunkingSettings  `toml:"chunking"`
	Retrieval RetrievalSettings `toml:"retrieval"`
}

// DefaultSettings returns the configuration used when no config file
// exists yet: OpenAI with a local Ollama fallback for embeddings, OpenAI
// with a Groq fallback for answers, filesystem source, file store.
func DefaultSettings() Settings {
	return Settings{
		Embedding: []ProviderSettings{
			{Provider: AIProviderOpenAI},
			{Provider: AIProviderOllama},
		},
		LLM: []ProviderSettings{
			{Provider: AIProviderOpenAI},
			{Provider: AIProviderGroq},
		},
		Source:  SourceSettings{Type: SourceFilesystem, Dir: "docs"},
		Storage: StorageSettings{Backend: StorageFile},
		Chunking: ChunkingSettings{
			MaxChars:     1000,
			OverlapChars: 200,
			MinChars:     40,
		},
		Retrieval: RetrievalSettings{
			TopK:           5,
			MaxPromptChars: 12000,
		},
	}
}
