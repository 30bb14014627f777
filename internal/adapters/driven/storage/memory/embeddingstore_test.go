package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

func newTestStore(t *testing.T) (*EmbeddingStore, *Embedder) {
	t.Helper()
	emb := NewEmbedder(map[string][]float32{
		"alpha":   {1, 0},
		"beta":    {0, 1},
		"alpha 2": {0.9, 0.1},
	})
	return NewEmbeddingStore(emb, domain.DistanceL2), emb
}

func TestEmbeddingStore_UpsertAndListAll(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, "c", []domain.Document{
		{ID: "a.md", Content: "alpha", Metadata: map[string]any{"type": "md"}},
		{ID: "b.md", Content: "beta", Metadata: map[string]any{"type": "md"}},
	}))

	snap, err := store.ListAll(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md"}, snap.IDs)
	assert.Equal(t, []string{"alpha", "beta"}, snap.Documents)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, snap.Embeddings)
	assert.Equal(t, "md", snap.Metadatas[0]["type"])
}

func TestEmbeddingStore_UpsertReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Upsert(ctx, "c", []domain.Document{
		{ID: "a.md", Content: "alpha"},
		{ID: "b.md", Content: "beta"},
	}))
	require.NoError(t, store.Upsert(ctx, "c", []domain.Document{
		{ID: "a.md", Content: "alpha 2", Metadata: map[string]any{"type": "md"}},
	}))

	snap, err := store.ListAll(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "b.md"}, snap.IDs)
	assert.Equal(t, "alpha 2", snap.Documents[0])
	assert.Equal(t, []float32{0.9, 0.1}, snap.Embeddings[0])

	count, err := store.Count(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestEmbeddingStore_UpsertEmbedFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", []domain.Document{{ID: "a.md", Content: "alpha"}}))

	err := store.Upsert(ctx, "c", []domain.Document{{ID: "a.md", Content: "unknown"}})

	require.Error(t, err)
	docs, err := store.Get(ctx, "c", []string{"a.md"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "alpha", docs[0].Content)
}

func TestEmbeddingStore_Get(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", []domain.Document{{ID: "a.md", Content: "alpha"}}))

	docs, err := store.Get(ctx, "c", []string{"missing.md", "a.md"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []float32{1, 0}, docs[0].Embedding)

	none, err := store.Get(ctx, "other", []string{"a.md"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEmbeddingStore_QueryNearest(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.Upsert(ctx, "c", []domain.Document{
		{ID: "a.md", Content: "alpha"},
		{ID: "b.md", Content: "beta"},
		{ID: "a2.md", Content: "alpha 2"},
	}))

	res, err := store.QueryNearest(ctx, "c", [][]float32{{1, 0}}, 2)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a.md", "a2.md"}}, res.IDs)
	assert.InDelta(t, 0.0, res.Distances[0][0], 1e-9)
}

func TestEmbeddingStore_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	count, err := store.Count(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, count)

	snap, err := store.ListAll(ctx, "empty")
	require.NoError(t, err)
	assert.Zero(t, snap.Len())
}

func TestEmbeddingStore_NoEmbedder(t *testing.T) {
	store := NewEmbeddingStore(nil, domain.DistanceL2)

	err := store.Upsert(context.Background(), "c", []domain.Document{{ID: "a.md"}})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
