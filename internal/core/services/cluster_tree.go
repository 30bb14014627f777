package services

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// ClusterTreeBuilder clusters embeddings and builds the binary dendrogram.
type ClusterTreeBuilder struct {
	clusterer driven.Clusterer
}

// NewClusterTreeBuilder creates a builder around the given clusterer.
func NewClusterTreeBuilder(clusterer driven.Clusterer) *ClusterTreeBuilder {
	return &ClusterTreeBuilder{clusterer: clusterer}
}

// Build clusters the embeddings and returns the dendrogram root.
// At least two embeddings are required.
func (b *ClusterTreeBuilder) Build(ctx context.Context, embeddings [][]float32) (domain.ClusterNode, error) {
	if len(embeddings) < 2 {
		return nil, domain.ErrInsufficientDocuments
	}
	if b.clusterer == nil {
		return nil, domain.ErrNotImplemented
	}

	logger.Debug("clustering %d embeddings", len(embeddings))
	merges, err := b.clusterer.Fit(ctx, embeddings)
	if err != nil {
		return nil, fmt.Errorf("cluster embeddings: %w", err)
	}
	return BuildClusterTree(len(embeddings), merges)
}

// BuildClusterTree converts a merge sequence over n leaves into a tree.
// Merge k must join two clusters that already exist (index < n+k) and
// every cluster may be merged only once. A single leaf with no merges
// yields a lone *domain.ClusterLeaf.
func BuildClusterTree(n int, merges []domain.Merge) (domain.ClusterNode, error) {
	if n < 1 {
		return nil, domain.ErrInsufficientDocuments
	}
	if len(merges) != n-1 {
		return nil, fmt.Errorf("%w: %d leaves need %d merges, got %d",
			domain.ErrInvalidInput, n, n-1, len(merges))
	}
	if n == 1 {
		return &domain.ClusterLeaf{Idx: 0}, nil
	}

	maxDistance := 0.0
	used := make([]bool, 2*n-1)
	for k, m := range merges {
		if math.IsNaN(m.Distance) || m.Distance < 0 {
			return nil, fmt.Errorf("%w: merge %d has distance %v", domain.ErrInvalidInput, k, m.Distance)
		}
		for _, child := range [2]int{m.Left, m.Right} {
			if child < 0 || child >= n+k {
				return nil, fmt.Errorf("%w: merge %d references cluster %d", domain.ErrInvalidInput, k, child)
			}
			if used[child] {
				return nil, fmt.Errorf("%w: cluster %d merged twice", domain.ErrInvalidInput, child)
			}
			used[child] = true
		}
		maxDistance = math.Max(maxDistance, m.Distance)
	}

	t := treeBuild{n: n, merges: merges, maxDistance: maxDistance}
	return t.node(n + len(merges) - 1), nil
}

type treeBuild struct {
	n           int
	merges      []domain.Merge
	maxDistance float64
}

func (t *treeBuild) node(idx int) domain.ClusterNode {
	if idx < t.n {
		return &domain.ClusterLeaf{Idx: idx}
	}

	m := t.merges[idx-t.n]
	left := t.node(m.Left)
	right := t.node(m.Right)

	normalized := 0.0
	if t.maxDistance > 0 {
		normalized = m.Distance / t.maxDistance
	}

	return &domain.ClusterInternal{
		Idx:                idx,
		Left:               left,
		Right:              right,
		MergeDistance:      m.Distance,
		NormalizedDistance: normalized,
		LeafIndices:        mergeSorted(left.Leaves(), right.Leaves()),
	}
}

// mergeSorted merges two sorted, disjoint index lists.
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
