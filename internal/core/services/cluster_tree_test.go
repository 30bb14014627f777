package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

func TestBuildClusterTree_TwoPairs(t *testing.T) {
	root, err := BuildClusterTree(4, twoPairsMerges())
	require.NoError(t, err)

	top, ok := root.(*domain.ClusterInternal)
	require.True(t, ok)
	assert.Equal(t, 6, top.Index())
	assert.Equal(t, []int{0, 1, 2, 3}, top.Leaves())
	assert.InDelta(t, 1.0, top.NormalizedDistance, 1e-12)
	assert.InDelta(t, 5.0, top.MergeDistance, 1e-12)

	left := top.Left.(*domain.ClusterInternal)
	right := top.Right.(*domain.ClusterInternal)
	assert.Equal(t, 4, left.Index())
	assert.Equal(t, 5, right.Index())
	assert.InDelta(t, 0.1, left.NormalizedDistance, 1e-12)
	assert.InDelta(t, 0.2, right.NormalizedDistance, 1e-12)
	assert.Equal(t, []int{0, 1}, left.Leaves())
	assert.Equal(t, []int{2, 3}, right.Leaves())
}

func TestBuildClusterTree_LeafIndicesSorted(t *testing.T) {
	merges := []domain.Merge{
		{Left: 2, Right: 0, Distance: 1},
		{Left: 1, Right: 3, Distance: 2},
	}
	root, err := BuildClusterTree(3, merges)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, root.Leaves())
	internal := root.(*domain.ClusterInternal)
	assert.Equal(t, 1, internal.Left.Index())
	assert.Equal(t, []int{0, 2}, internal.Right.Leaves())
}

func TestBuildClusterTree_CountsAndRange(t *testing.T) {
	// chain merges: each new leaf joins the growing cluster
	n := 6
	merges := []domain.Merge{{Left: 0, Right: 1, Distance: 1}}
	for k := 1; k < n-1; k++ {
		merges = append(merges, domain.Merge{Left: k + 1, Right: n + k - 1, Distance: float64(k + 1)})
	}

	root, err := BuildClusterTree(n, merges)
	require.NoError(t, err)

	leaves, internals := 0, 0
	var visit func(node domain.ClusterNode)
	visit = func(node domain.ClusterNode) {
		switch v := node.(type) {
		case *domain.ClusterLeaf:
			leaves++
		case *domain.ClusterInternal:
			internals++
			assert.GreaterOrEqual(t, v.NormalizedDistance, 0.0)
			assert.LessOrEqual(t, v.NormalizedDistance, 1.0)
			visit(v.Left)
			visit(v.Right)
		}
	}
	visit(root)

	assert.Equal(t, n, leaves)
	assert.Equal(t, n-1, internals)
	assert.Equal(t, 2*n-2, root.Index())
}

func TestBuildClusterTree_SingleLeaf(t *testing.T) {
	root, err := BuildClusterTree(1, nil)
	require.NoError(t, err)

	leaf, ok := root.(*domain.ClusterLeaf)
	require.True(t, ok)
	assert.Equal(t, 0, leaf.Index())
}

func TestBuildClusterTree_ZeroDistances(t *testing.T) {
	merges := []domain.Merge{
		{Left: 0, Right: 1, Distance: 0},
		{Left: 2, Right: 3, Distance: 0},
	}
	root, err := BuildClusterTree(3, merges)
	require.NoError(t, err)

	top := root.(*domain.ClusterInternal)
	assert.Zero(t, top.NormalizedDistance)
	assert.Zero(t, top.Right.(*domain.ClusterInternal).NormalizedDistance)
}

func TestBuildClusterTree_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		merges []domain.Merge
	}{
		{"too few merges", 3, []domain.Merge{{Left: 0, Right: 1, Distance: 1}}},
		{"forward reference", 3, []domain.Merge{{Left: 0, Right: 3, Distance: 1}, {Left: 2, Right: 4, Distance: 2}}},
		{"negative index", 2, []domain.Merge{{Left: -1, Right: 1, Distance: 1}}},
		{"cluster reused", 3, []domain.Merge{{Left: 0, Right: 1, Distance: 1}, {Left: 0, Right: 2, Distance: 2}}},
		{"self merge", 2, []domain.Merge{{Left: 1, Right: 1, Distance: 1}}},
		{"negative distance", 2, []domain.Merge{{Left: 0, Right: 1, Distance: -1}}},
		{"nan distance", 2, []domain.Merge{{Left: 0, Right: 1, Distance: math.NaN()}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildClusterTree(tt.n, tt.merges)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestBuildClusterTree_NoLeaves(t *testing.T) {
	_, err := BuildClusterTree(0, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientDocuments)
}

func TestClusterTreeBuilder_Build(t *testing.T) {
	clusterer := &mockClusterer{merges: twoPairsMerges()}
	embeddings := [][]float32{{0}, {0.1}, {5}, {5.2}}

	root, err := NewClusterTreeBuilder(clusterer).Build(context.Background(), embeddings)
	require.NoError(t, err)

	assert.Equal(t, embeddings, clusterer.points)
	assert.Equal(t, []int{0, 1, 2, 3}, root.Leaves())
}

func TestClusterTreeBuilder_InsufficientDocuments(t *testing.T) {
	builder := NewClusterTreeBuilder(&mockClusterer{})

	_, err := builder.Build(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientDocuments)
	assert.EqualError(t, err, "insufficient documents to cluster")

	_, err = builder.Build(context.Background(), [][]float32{{1}})
	assert.ErrorIs(t, err, domain.ErrInsufficientDocuments)
}

func TestClusterTreeBuilder_NoClusterer(t *testing.T) {
	_, err := NewClusterTreeBuilder(nil).Build(context.Background(), [][]float32{{1}, {2}})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}

func TestClusterTreeBuilder_ClustererError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewClusterTreeBuilder(&mockClusterer{err: boom}).Build(context.Background(), [][]float32{{1}, {2}})
	assert.ErrorIs(t, err, boom)
}
