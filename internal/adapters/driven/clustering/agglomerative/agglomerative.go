// Package agglomerative implements unconstrained hierarchical agglomerative
// clustering over Euclidean distances.
//
// Merges are found with the nearest-neighbour chain algorithm and
// Lance-Williams distance updates, which is exact for the reducible
// linkages supported here (ward, complete, average, single). The result
// matches the scipy/scikit-learn linkage layout: merges sorted by distance,
// merge k creating cluster n+k, and each merge listing the lower cluster
// index first. Ward distances are reported on the same scale as scipy,
// i.e. as the square root of the Lance-Williams ward update.
package agglomerative

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure Clusterer implements the interface.
var _ driven.Clusterer = (*Clusterer)(nil)

// Clusterer runs agglomerative clustering with a fixed linkage.
type Clusterer struct {
	linkage domain.Linkage
}

// New creates a clusterer. An invalid linkage falls back to ward.
func New(linkage domain.Linkage) *Clusterer {
	if !linkage.IsValid() {
		linkage = domain.LinkageWard
	}
	return &Clusterer{linkage: linkage}
}

// Linkage returns the linkage in use.
func (c *Clusterer) Linkage() domain.Linkage {
	return c.linkage
}

// Fit returns the len(points)-1 merges of the full dendrogram.
// Memory use is quadratic in the number of points.
func (c *Clusterer) Fit(ctx context.Context, points [][]float32) ([]domain.Merge, error) {
	n := len(points)
	if n < 2 {
		return nil, domain.ErrInsufficientDocuments
	}
	dims := len(points[0])
	for i, p := range points {
		if len(p) != dims {
			return nil, fmt.Errorf("%w: point %d has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, i, len(p), dims)
		}
	}

	dist, err := pairwise(ctx, points)
	if err != nil {
		return nil, err
	}
	steps, err := nnChain(ctx, dist, c.update())
	if err != nil {
		return nil, err
	}
	return relabel(steps, n), nil
}

// condensed is the upper triangle of a symmetric distance matrix.
type condensed struct {
	n int
	d []float64
}

func (m *condensed) index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return m.n*i - i*(i+1)/2 + (j - i - 1)
}

func (m *condensed) get(i, j int) float64    { return m.d[m.index(i, j)] }
func (m *condensed) set(i, j int, v float64) { m.d[m.index(i, j)] = v }

func pairwise(ctx context.Context, points [][]float32) (*condensed, error) {
	n := len(points)
	m := &condensed{n: n, d: make([]float64, n*(n-1)/2)}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			var sum float64
			for k := range points[i] {
				diff := float64(points[i][k]) - float64(points[j][k])
				sum += diff * diff
			}
			m.set(i, j, math.Sqrt(sum))
		}
	}
	return m, nil
}

// updateFunc returns the distance from cluster i to the union of x and y.
type updateFunc func(dxi, dyi, dxy float64, nx, ny, ni int) float64

func (c *Clusterer) update() updateFunc {
	switch c.linkage {
	case domain.LinkageSingle:
		return func(dxi, dyi, _ float64, _, _, _ int) float64 {
			return math.Min(dxi, dyi)
		}
	case domain.LinkageComplete:
		return func(dxi, dyi, _ float64, _, _, _ int) float64 {
			return math.Max(dxi, dyi)
		}
	case domain.LinkageAverage:
		return func(dxi, dyi, _ float64, nx, ny, _ int) float64 {
			return (float64(nx)*dxi + float64(ny)*dyi) / float64(nx+ny)
		}
	default:
		return func(dxi, dyi, dxy float64, nx, ny, ni int) float64 {
			t := float64(nx + ny + ni)
			v := (float64(nx+ni)*dxi*dxi + float64(ny+ni)*dyi*dyi - float64(ni)*dxy*dxy) / t
			return math.Sqrt(math.Max(v, 0))
		}
	}
}

// step is a merge of two matrix slots; the union lives on in slot y.
type step struct {
	x, y     int
	distance float64
}

// nnChain finds all merges. Ties in nearest-neighbour search prefer the
// previous chain element, then the lowest slot index.
func nnChain(ctx context.Context, dist *condensed, update updateFunc) ([]step, error) {
	n := dist.n
	size := make([]int, n)
	for i := range size {
		size[i] = 1
	}
	// height of the cluster held in each slot, used to keep distances
	// monotone against floating point drift
	height := make([]float64, n)
	chain := make([]int, 0, n)
	steps := make([]step, 0, n-1)

	for k := 0; k < n-1; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(chain) == 0 {
			for i := 0; i < n; i++ {
				if size[i] > 0 {
					chain = append(chain, i)
					break
				}
			}
		}

		var x, y int
		var current float64
		for {
			x = chain[len(chain)-1]
			y = -1
			current = math.Inf(1)
			if len(chain) > 1 {
				y = chain[len(chain)-2]
				current = dist.get(x, y)
			}
			for i := 0; i < n; i++ {
				if size[i] == 0 || i == x {
					continue
				}
				if d := dist.get(x, i); d < current {
					current = d
					y = i
				}
			}
			if len(chain) > 1 && y == chain[len(chain)-2] {
				break
			}
			chain = append(chain, y)
		}
		chain = chain[:len(chain)-2]

		if x > y {
			x, y = y, x
		}
		nx, ny := size[x], size[y]
		for i := 0; i < n; i++ {
			if size[i] == 0 || i == x || i == y {
				continue
			}
			dist.set(i, y, update(dist.get(i, x), dist.get(i, y), current, nx, ny, size[i]))
		}

		h := math.Max(current, math.Max(height[x], height[y]))
		steps = append(steps, step{x: x, y: y, distance: h})
		size[x] = 0
		size[y] = nx + ny
		height[y] = h
	}
	return steps, nil
}

// relabel orders steps by distance and rewrites slot numbers as cluster
// indices, so that merge k creates cluster n+k.
func relabel(steps []step, n int) []domain.Merge {
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].distance < steps[j].distance })

	parent := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
	}
	find := func(v int) int {
		root := v
		for parent[root] != root {
			root = parent[root]
		}
		for parent[v] != root {
			parent[v], v = root, parent[v]
		}
		return root
	}

	merges := make([]domain.Merge, len(steps))
	for k, s := range steps {
		a, b := find(s.x), find(s.y)
		if a > b {
			a, b = b, a
		}
		merges[k] = domain.Merge{Left: a, Right: b, Distance: s.distance}
		parent[a] = n + k
		parent[b] = n + k
	}
	return merges
}
