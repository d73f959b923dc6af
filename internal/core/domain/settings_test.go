package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderGroq.IsValid())
	assert.True(t, AIProviderOllama.IsValid())
	assert.False(t, AIProvider("gemini").IsValid())
	assert.False(t, AIProvider("").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderGroq.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
}

func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Groq (cloud)", AIProviderGroq.Description())
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("other").Description())
}

func TestSourceType_IsValid(t *testing.T) {
	assert.True(t, SourceNotion.IsValid())
	assert.True(t, SourceFilesystem.IsValid())
	assert.False(t, SourceType("web").IsValid())
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageFile.IsValid())
	assert.True(t, StorageSQLite.IsValid())
	assert.False(t, StorageBackend("redis").IsValid())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Len(t, s.Embedding, 2)
	assert.Equal(t, AIProviderOpenAI, s.Embedding[0].Provider)
	assert.Equal(t, AIProviderOllama, s.Embedding[1].Provider)

	assert.Len(t, s.LLM, 2)
	assert.Equal(t, AIProviderOpenAI, s.LLM[0].Provider)
	assert.Equal(t, AIProviderGroq, s.LLM[1].Provider)

	assert.True(t, s.Source.Type.IsValid())
	assert.True(t, s.Storage.Backend.IsValid())
	assert.Greater(t, s.Chunking.MaxChars, s.Chunking.OverlapChars)
	assert.Greater(t, s.Retrieval.TopK, 0)
}
