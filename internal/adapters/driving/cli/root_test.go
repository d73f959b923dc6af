package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ansera-cli/internal/core/domain"
)

// fakePipeline is a canned-response pipeline for command tests.
type fakePipeline struct {
	summary domain.IndexSummary
	answer  domain.Answer
	stats   domain.IndexStats
	err     error

	indexed   [][]domain.Document
	questions []string
	lastK     int
}

func (f *fakePipeline) Index(_ context.Context, docs []domain.Document) (domain.IndexSummary, error) {
	f.indexed = append(f.indexed, docs)
	return f.summary, f.err
}

func (f *fakePipeline) Query(_ context.Context, question string, k int) (domain.Answer, error) {
	f.questions = append(f.questions, question)
	f.lastK = k
	return f.answer, f.err
}

func (f *fakePipeline) Stats(_ context.Context) (domain.IndexStats, error) {
	return f.stats, f.err
}

// fakeSource returns a fixed document list.
type fakeSource struct {
	docs []domain.Document
	err  error
}

func (f *fakeSource) FetchDocuments(_ context.Context) ([]domain.Document, error) {
	return f.docs, f.err
}

// setupTestServices injects fakes and returns them with a cleanup func.
func setupTestServices() (*fakePipeline, *fakeSource, func()) {
	pipeline := &fakePipeline{}
	source := &fakeSource{}

	pipelineService = pipeline
	documentSource = source
	settings = domain.DefaultSettings()

	cleanup := func() {
		pipelineService = nil
		documentSource = nil
		configStore = nil
		settings = domain.Settings{}
		rootCmd.SetArgs(nil)
	}
	return pipeline, source, cleanup
}

func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "ansera", rootCmd.Use)
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["index"])
	assert.True(t, names["query"])
	assert.True(t, names["stats"])
	assert.True(t, names["config"])
	assert.True(t, names["version"])
}
