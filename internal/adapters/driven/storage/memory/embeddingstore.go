package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/vectors"
	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure EmbeddingStore implements the interface.
var _ driven.EmbeddingStore = (*EmbeddingStore)(nil)

// EmbeddingStore is an in-memory implementation of driven.EmbeddingStore.
// Documents iterate in first-insertion order; re-upserting keeps the slot.
type EmbeddingStore struct {
	mu          sync.RWMutex
	embedder    driven.EmbeddingService
	space       domain.DistanceSpace
	collections map[string]*collection
}

type collection struct {
	order []string
	docs  map[string]domain.Document
}

// NewEmbeddingStore creates an empty store that embeds through embedder.
func NewEmbeddingStore(embedder driven.EmbeddingService, space domain.DistanceSpace) *EmbeddingStore {
	if !space.IsValid() {
		space = domain.DistanceL2
	}
	return &EmbeddingStore{
		embedder:    embedder,
		space:       space,
		collections: make(map[string]*collection),
	}
}

// ListAll returns every document in insertion order.
func (s *EmbeddingStore) ListAll(_ context.Context, name string) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &domain.Snapshot{
		IDs:        []string{},
		Documents:  []string{},
		Embeddings: [][]float32{},
		Metadatas:  []map[string]any{},
	}
	c, ok := s.collections[name]
	if !ok {
		return snap, nil
	}
	for _, id := range c.order {
		d := c.docs[id]
		snap.IDs = append(snap.IDs, d.ID)
		snap.Documents = append(snap.Documents, d.Content)
		snap.Embeddings = append(snap.Embeddings, d.Embedding)
		snap.Metadatas = append(snap.Metadatas, d.Metadata)
	}
	return snap, nil
}

// Upsert embeds docs and replaces any stored documents with the same IDs.
// Embedding happens before the lock is taken, so a failed embed leaves
// the collection untouched.
func (s *EmbeddingStore) Upsert(ctx context.Context, name string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("embed documents: got %d embeddings for %d documents", len(embeddings), len(docs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]domain.Document)}
		s.collections[name] = c
	}
	now := time.Now()
	for i, d := range docs {
		if _, exists := c.docs[d.ID]; !exists {
			c.order = append(c.order, d.ID)
		}
		c.docs[d.ID] = domain.Document{
			ID:        d.ID,
			Content:   d.Content,
			Metadata:  copyMetadata(d.Metadata),
			Embedding: embeddings[i],
			UpdatedAt: now,
		}
	}
	return nil
}

// Get returns the documents with the given IDs. Unknown IDs are skipped.
func (s *EmbeddingStore) Get(_ context.Context, name string, ids []string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := c.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// QueryNearest runs a brute-force search over the collection.
func (s *EmbeddingStore) QueryNearest(
	_ context.Context,
	name string,
	queries [][]float32,
	n int,
) (*domain.QueryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var candidates []vectors.Candidate
	if c, ok := s.collections[name]; ok {
		candidates = make([]vectors.Candidate, 0, len(c.order))
		for _, id := range c.order {
			candidates = append(candidates, vectors.Candidate{ID: id, Vector: c.docs[id].Embedding})
		}
	}
	return vectors.Nearest(s.space, candidates, queries, n)
}

// Count returns the number of documents in the collection.
func (s *EmbeddingStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[name]; ok {
		return len(c.order), nil
	}
	return 0, nil
}

// Close is a no-op.
func (s *EmbeddingStore) Close() error {
	return nil
}

func copyMetadata(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
