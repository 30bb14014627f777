package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// NeighborLinkFinder finds stored documents close to a query note.
type NeighborLinkFinder struct {
	store      driven.EmbeddingStore
	collection string
	threshold  float64
	neighbours int
}

// NewNeighborLinkFinder creates a finder over one collection.
// A non-positive neighbours uses domain.DefaultNeighbours.
func NewNeighborLinkFinder(
	store driven.EmbeddingStore,
	collection string,
	threshold float64,
	neighbours int,
) *NeighborLinkFinder {
	if neighbours <= 0 {
		neighbours = domain.DefaultNeighbours
	}
	return &NeighborLinkFinder{
		store:      store,
		collection: collection,
		threshold:  threshold,
		neighbours: neighbours,
	}
}

// Find upserts the note, then queries neighbours of its stored embedding.
// The note itself and anything farther than the threshold are dropped.
// An empty store fails with domain.ErrNoDocumentsIndexed before any write.
func (f *NeighborLinkFinder) Find(ctx context.Context, req domain.LinkRequest) (*domain.LinkResult, error) {
	if req.Path == "" {
		return nil, fmt.Errorf("%w: file_path is required", domain.ErrInvalidInput)
	}

	count, err := f.store.Count(ctx, f.collection)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return nil, domain.ErrNoDocumentsIndexed
	}

	doc := domain.Document{
		ID:       req.Path,
		Content:  req.Content,
		Metadata: map[string]any{domain.MetadataType: domain.DefaultLinkMetadataType},
	}
	if err := f.store.Upsert(ctx, f.collection, []domain.Document{doc}); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", req.Path, err)
	}

	stored, err := f.store.Get(ctx, f.collection, []string{req.Path})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", req.Path, err)
	}
	if len(stored) == 0 || len(stored[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: no embedding stored for %s", domain.ErrNotFound, req.Path)
	}

	queries := make([][]float32, len(stored))
	for i, d := range stored {
		queries[i] = d.Embedding
	}
	raw, err := f.store.QueryNearest(ctx, f.collection, queries, f.neighbours)
	if err != nil {
		return nil, fmt.Errorf("query neighbours: %w", err)
	}

	result := FilterNeighbours(raw, f.threshold)
	logger.Debug("links for %s: %d candidates kept", req.Path, rowLen(result))
	return result, nil
}

// FilterNeighbours keeps, per query row, the matches whose distance is above
// domain.SelfDistanceEpsilon and at most threshold. Row order is preserved.
func FilterNeighbours(raw *domain.QueryResult, threshold float64) *domain.LinkResult {
	out := &domain.LinkResult{IDs: [][]string{}, Distances: [][]float64{}}
	if raw == nil {
		return out
	}
	for row := range raw.IDs {
		ids := []string{}
		dists := []float64{}
		for i, id := range raw.IDs[row] {
			if row >= len(raw.Distances) || i >= len(raw.Distances[row]) {
				break
			}
			d := raw.Distances[row][i]
			if d > domain.SelfDistanceEpsilon && d <= threshold {
				ids = append(ids, id)
				dists = append(dists, d)
			}
		}
		out.IDs = append(out.IDs, ids)
		out.Distances = append(out.Distances, dists)
	}
	return out
}

func rowLen(r *domain.LinkResult) int {
	if r == nil || len(r.IDs) == 0 {
		return 0
	}
	return len(r.IDs[0])
}
