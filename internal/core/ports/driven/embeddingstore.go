package driven

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// EmbeddingStore holds named collections of documents and their embeddings.
// Upsert replaces a document's content, embedding and metadata as a unit.
type EmbeddingStore interface {
	// ListAll returns every document in the collection, in a stable
	// iteration order. The order defines clustering indices.
	ListAll(ctx context.Context, collection string) (*domain.Snapshot, error)

	// Upsert embeds and stores documents, replacing any with the same ID.
	Upsert(ctx context.Context, collection string, docs []domain.Document) error

	// Get returns the documents with the given IDs, including embeddings.
	// Unknown IDs are skipped.
	Get(ctx context.Context, collection string, ids []string) ([]domain.Document, error)

	// QueryNearest returns up to n nearest documents for each query vector,
	// closest first.
	QueryNearest(ctx context.Context, collection string, queries [][]float32, n int) (*domain.QueryResult, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// Close releases resources.
	Close() error
}
