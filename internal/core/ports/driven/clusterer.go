package driven

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// Clusterer runs unconstrained agglomerative clustering and returns the full
// merge sequence: len(points)-1 merges, where merge k creates cluster
// len(points)+k. Merge distances are non-decreasing.
type Clusterer interface {
	Fit(ctx context.Context, points [][]float32) ([]domain.Merge, error)
}
