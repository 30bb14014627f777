package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "kimi-k2-turbo-preview"))
	require.NoError(t, store.Set("links.neighbours", 10))
	require.NoError(t, store.Set("tagging.threshold", 0.5))
	require.NoError(t, store.Set("tagging.full_path", true))
	require.NoError(t, store.Set("server.allowed_origins", []any{"app://obsidian.md", 3}))

	assert.Equal(t, "kimi-k2-turbo-preview", store.GetString("llm.model"))
	assert.Equal(t, 10, store.GetInt("links.neighbours"))
	assert.InDelta(t, 0.5, store.GetFloat("tagging.threshold"), 1e-12)
	assert.InDelta(t, 10.0, store.GetFloat("links.neighbours"), 1e-12)
	assert.True(t, store.GetBool("tagging.full_path"))
	assert.Equal(t, []string{"app://obsidian.md"}, store.GetStringSlice("server.allowed_origins"))
}

func TestConfigStore_Missing(t *testing.T) {
	store := NewConfigStore()

	_, ok := store.Get("nope")
	assert.False(t, ok)
	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetFloat("nope"))
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{
		"store.qdrant_port": int64(6334),
		"tagging.threshold": "0.35",
	}
	store := NewConfigStore(seed)

	assert.Equal(t, 6334, store.GetInt("store.qdrant_port"))
	assert.InDelta(t, 0.35, store.GetFloat("tagging.threshold"), 1e-12)

	// the seed map is copied
	require.NoError(t, store.Set("tagging.threshold", 0.6))
	assert.Equal(t, "0.35", seed["tagging.threshold"])
	assert.Equal(t, 1, store.Saves())
}
