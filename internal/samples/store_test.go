package samples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGet(t *testing.T) {
	store, err := NewStore(4, 100)
	require.NoError(t, err)

	store.Put("events", "logs/*.jsonl", []any{map[string]any{"a": 1}}, nil)

	set, ok := store.Get("events")
	require.True(t, ok)
	assert.Equal(t, "events", set.Name)
	assert.Equal(t, "logs/*.jsonl", set.Source)
	assert.Equal(t, 1, set.Len())

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestStore_Replace(t *testing.T) {
	store, err := NewStore(4, 100)
	require.NoError(t, err)

	store.Put("s", "", []any{1}, nil)
	store.Put("s", "", []any{1, 2}, nil)

	set, ok := store.Get("s")
	require.True(t, ok)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 1, store.Len())
}

func TestStore_EvictsLeastRecentlyUsed(t *testing.T) {
	store, err := NewStore(2, 100)
	require.NoError(t, err)

	store.Put("a", "", []any{1}, nil)
	store.Put("b", "", []any{1}, nil)
	_, _ = store.Get("a")
	store.Put("c", "", []any{1}, nil)

	_, ok := store.Get("b")
	assert.False(t, ok)
	_, ok = store.Get("a")
	assert.True(t, ok)
}

func TestStore_TruncatesLargeSets(t *testing.T) {
	store, err := NewStore(2, 3)
	require.NoError(t, err)

	set := store.Put("big", "", []any{1, 2, 3, 4, 5}, nil)
	assert.True(t, set.Truncated)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, 5, set.Total)
}

func TestStore_ListAndDelete(t *testing.T) {
	store, err := NewStore(4, 100)
	require.NoError(t, err)

	store.Put("zeta", "", []any{map[string]any{"a": 1, "b": 2}}, nil)
	store.Put("alpha", "inline", []any{1, 2}, nil)

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, 2, list[0].Samples)
	assert.Equal(t, "zeta", list[1].Name)
	assert.Equal(t, 2, list[1].Paths)

	assert.True(t, store.Delete("alpha"))
	assert.False(t, store.Delete("alpha"))
	assert.Len(t, store.List(), 1)
}

func TestNewStore_InvalidSize(t *testing.T) {
	_, err := NewStore(0, 10)
	assert.Error(t, err)
}
