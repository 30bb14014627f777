package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vaultag/internal/core/domain"
)

func newIndexFixture(t *testing.T) (*IndexService, *memory.EmbeddingStore, *mockVault) {
	t.Helper()
	emb := memory.NewEmbedder(map[string][]float32{
		"alpha": {1, 0},
		"beta":  {0, 1},
		"gamma": {1, 1},
	})
	store := memory.NewEmbeddingStore(emb, domain.DistanceL2)
	vault := newMockVault("/vault", map[string]string{
		"notes/a.md": "alpha",
		"notes/b.md": "beta",
	})
	return NewIndexService(store, vault, testCollection), store, vault
}

func TestIndexService_Ingest(t *testing.T) {
	svc, store, _ := newIndexFixture(t)

	n, err := svc.Ingest(context.Background(), "", []domain.FileRef{
		{Path: "notes/a.md", Name: "a", Extension: "md"},
		{Path: "notes/b.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap, err := store.ListAll(context.Background(), testCollection)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes/a.md", "notes/b.md"}, snap.IDs)
	assert.Equal(t, []string{"alpha", "beta"}, snap.Documents)
	assert.Equal(t, "md", snap.Metadatas[0][domain.MetadataType])
	// extension is derived from the path when missing
	assert.Equal(t, "md", snap.Metadatas[1][domain.MetadataType])
}

func TestIndexService_IngestSameVaultRoot(t *testing.T) {
	svc, _, _ := newIndexFixture(t)

	n, err := svc.Ingest(context.Background(), "/vault/", []domain.FileRef{{Path: "notes/a.md"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestIndexService_IngestRejectsOtherVault(t *testing.T) {
	svc, store, _ := newIndexFixture(t)

	for _, dir := range []string{"/", "/other", "/vault/..", "/vault/notes"} {
		_, err := svc.Ingest(context.Background(), dir, []domain.FileRef{{Path: "etc/shadow"}})
		assert.ErrorIs(t, err, domain.ErrOutsideVault, dir)
	}

	count, err := store.Count(context.Background(), testCollection)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexService_IngestErrors(t *testing.T) {
	svc, store, _ := newIndexFixture(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "", []domain.FileRef{{Path: ""}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(ctx, "", []domain.FileRef{{Path: "notes/a.md"}, {Path: "missing.md"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// nothing is written when any file fails
	count, err := store.Count(ctx, testCollection)
	require.NoError(t, err)
	assert.Zero(t, count)

	n, err := svc.Ingest(ctx, "", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIndexService_IngestVault(t *testing.T) {
	svc, _, _ := newIndexFixture(t)

	n, err := svc.IngestVault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := svc.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestIndexService_NoVault(t *testing.T) {
	svc := NewIndexService(memory.NewEmbeddingStore(memory.NewEmbedder(nil), domain.DistanceL2), nil, testCollection)

	_, err := svc.IngestVault(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ingest(context.Background(), "", []domain.FileRef{{Path: "a.md"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndexService_NoStore(t *testing.T) {
	svc := NewIndexService(nil, nil, testCollection)

	_, err := svc.Ingest(context.Background(), "", []domain.FileRef{{Path: "a.md"}})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)

	_, err = svc.Count(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
