package corpus

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestStore_ReloadsOnChange(t *testing.T) {
	path := writeCorpus(t, `[{"name": "A"}]`)
	store := NewStore(path, testLogger())
	ctx := context.Background()

	first, err := store.Get(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	again, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "A"}, {"name": "B"}]`), 0o644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	updated, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, updated, 2)
}

func TestStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := NewStore(path, testLogger())

	_, err := store.Get(context.Background())

	assert.ErrorIs(t, err, ErrCorpusUnavailable)
	assert.Contains(t, err.Error(), path)
	assert.Equal(t, path, store.Path())
}

func TestStore_FileRemovedAfterLoad(t *testing.T) {
	path := writeCorpus(t, `[{"name": "A"}]`)
	store := NewStore(path, testLogger())

	_, err := store.Get(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))

	_, err = store.Get(context.Background())
	assert.ErrorIs(t, err, ErrCorpusUnavailable)
}

func TestStore_FormatError(t *testing.T) {
	path := writeCorpus(t, `{"name": "A"}`)
	store := NewStore(path, testLogger())

	_, err := store.Get(context.Background())

	assert.ErrorIs(t, err, ErrCorpusFormat)
}

func TestStore_Invalidate(t *testing.T) {
	path := writeCorpus(t, `[{"name": "A"}]`)
	store := NewStore(path, testLogger())

	_, err := store.Get(context.Background())
	require.NoError(t, err)

	store.Invalidate()

	c, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.Len(t, c, 1)
}
