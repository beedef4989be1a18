package wordbook

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	app, err := New(context.Background(), &Config{
		DataDir:     filepath.Join(dir, "data"),
		LocalDBPath: filepath.Join(dir, "wordbook.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func writeWords(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestPutViewLists(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	file := writeWords(t, "strawberry | https://example.com/sb\nblueberry\ncherry\n")
	require.NoError(t, app.Put(ctx, &PutCommand{ListName: "vocabulary", File: file}))

	var out bytes.Buffer
	require.NoError(t, app.lists(ctx, &ListsCommand{}, &out))
	assert.Equal(t, "vocabulary\n", out.String())

	out.Reset()
	require.NoError(t, app.view(ctx, &ViewCommand{ListName: "vocabulary"}, &out))
	assert.Contains(t, out.String(), "vocabulary: page 1/1, 3 words")
	assert.Contains(t, out.String(), "strawberry  <https://example.com/sb>")
	assert.Contains(t, out.String(), "blueberry")

	// A bare view reopens the list recorded by the previous one.
	out.Reset()
	require.NoError(t, app.view(ctx, &ViewCommand{}, &out))
	assert.Contains(t, out.String(), "vocabulary: page 1/1")
}

func TestViewFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	app.config.PageSize = 10

	var content bytes.Buffer
	for i := 0; i < 25; i++ {
		content.WriteString("word")
		content.WriteByte(byte('a' + i))
		content.WriteString("\n")
	}
	file := writeWords(t, content.String())
	require.NoError(t, app.Put(ctx, &PutCommand{ListName: "big", File: file}))

	var out bytes.Buffer
	require.NoError(t, app.view(ctx, &ViewCommand{ListName: "big", Page: 3}, &out))
	assert.Contains(t, out.String(), "big: page 3/3, 25 words")

	out.Reset()
	require.NoError(t, app.view(ctx, &ViewCommand{ListName: "big", Search: "worda"}, &out))
	assert.Contains(t, out.String(), "1 words")
	assert.Contains(t, out.String(), `filter "worda"`)
}

func TestViewMissingList(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	err := app.view(ctx, &ViewCommand{}, &bytes.Buffer{})
	assert.Error(t, err, "nothing viewed yet and no name given")
}

func TestListsRemoveAndRename(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	file := writeWords(t, "alpha\n")
	require.NoError(t, app.Put(ctx, &PutCommand{ListName: "first", File: file}))
	require.NoError(t, app.Put(ctx, &PutCommand{ListName: "second", File: file}))

	require.NoError(t, app.Lists(ctx, &ListsCommand{Rename: "first", To: "renamed"}))
	require.NoError(t, app.Lists(ctx, &ListsCommand{Remove: "second"}))

	var out bytes.Buffer
	require.NoError(t, app.lists(ctx, &ListsCommand{}, &out))
	assert.Equal(t, "renamed\n", out.String())
}
