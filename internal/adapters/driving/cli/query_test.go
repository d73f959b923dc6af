package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

func TestQueryCmd_RequiresQuestion(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("query")
	require.Error(t, err)
}

func TestQueryCmd_PrintsAnswerAndSources(t *testing.T) {
	pipeline, _, cleanup := setupTestServices()
	defer cleanup()

	pipeline.answer = domain.Answer{
		Text: "The deploy command is 'make deploy'.",
		Sources: []domain.SourceRef{
			{DocumentID: "doc-1", DocumentTitle: "Runbook", Position: 2, Score: 0.91},
		},
	}

	out, err := executeCommand("query", "how", "do", "I", "deploy?")
	require.NoError(t, err)

	require.Len(t, pipeline.questions, 1)
	assert.Equal(t, "how do I deploy?", pipeline.questions[0])
	assert.Contains(t, out, "make deploy")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "Runbook")
	assert.Contains(t, out, "score 0.91")
}

func TestQueryCmd_TopKFlag(t *testing.T) {
	pipeline, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() { queryTopK = 0 }()

	_, err := executeCommand("query", "--top-k", "3", "question")
	require.NoError(t, err)
	assert.Equal(t, 3, pipeline.lastK)
}

func TestQueryCmd_TopKDefaultsFromConfig(t *testing.T) {
	pipeline, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("query", "question")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().Retrieval.TopK, pipeline.lastK)
}

func TestQueryCmd_EmptyCorpusAnswerHasNoSources(t *testing.T) {
	pipeline, _, cleanup := setupTestServices()
	defer cleanup()

	pipeline.answer = domain.Answer{
		Text:        "I couldn't find relevant information to answer your question.",
		EmptyCorpus: true,
	}

	out, err := executeCommand("query", "anything")
	require.NoError(t, err)
	assert.NotContains(t, out, "Sources:")
}
