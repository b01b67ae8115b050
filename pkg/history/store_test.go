package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picogrid/param-sweep/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func cfg(id, name string) models.Configuration {
	return models.Configuration{
		ID:          id,
		Name:        name,
		Description: "d",
		Parameters: []models.Parameter{
			{Key: "n", Type: models.ParamInt, Values: []models.Value{int64(1), int64(2)}},
		},
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, cfg("1", "first")))

	e, ok, err := s.Get(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, cfg("1", "first"), e.Config)
	assert.False(t, e.UpdatedAt.IsZero())

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecordReplacesByIDAndMovesToFront(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Record(ctx, cfg("1", "first")))
	require.NoError(t, s.Record(ctx, cfg("2", "second")))
	require.NoError(t, s.Record(ctx, cfg("1", "first v2")))

	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].Config.ID)
	assert.Equal(t, "first v2", entries[0].Config.Name)
	assert.Equal(t, "2", entries[1].Config.ID)

	limited, err := s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	latest, ok, err := s.Latest(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "1", latest.Config.ID)
}

func TestRecordRequiresID(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Record(context.Background(), cfg("", "unsaved")))
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, cfg("1", "first")))

	removed, err := s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, "1")
	require.NoError(t, err)
	assert.False(t, removed)

	_, ok, err := s.Latest(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), cfg("7", "kept")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	e, ok, err := s.Get(context.Background(), "7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "kept", e.Config.Name)
}
