package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestNewSource_RequiresExistingDirectory(t *testing.T) {
	_, err := NewSource("")
	assert.Error(t, err)

	_, err = NewSource(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFetchDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "guide.md", "# Guide\n\nSome content.")
	writeFile(t, dir, "notes.txt", "Plain notes.")
	writeFile(t, dir, "image.png", "not text")
	writeFile(t, dir, "sub/deep.md", "Nested document.")

	source, err := NewSource(dir)
	require.NoError(t, err)

	docs, err := source.FetchDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "guide.md", docs[0].ID)
	assert.Equal(t, "guide", docs[0].Title)
	assert.Equal(t, "# Guide\n\nSome content.", docs[0].Content)
	assert.NotEmpty(t, docs[0].Revision)

	assert.Equal(t, "notes.txt", docs[1].ID)
	assert.Equal(t, "sub/deep.md", docs[2].ID)
}

func TestFetchDocuments_SkipsHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "visible.md", "Visible.")
	writeFile(t, dir, ".git/hidden.md", "Hidden.")

	source, err := NewSource(dir)
	require.NoError(t, err)

	docs, err := source.FetchDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "visible.md", docs[0].ID)
}

func TestFetchDocuments_Cancellation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.md", "Content.")

	source, err := NewSource(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = source.FetchDocuments(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
