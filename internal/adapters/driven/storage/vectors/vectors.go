// Package vectors holds the distance functions and brute-force nearest
// neighbour search shared by the local embedding stores.
package vectors

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// Distance returns the distance between a and b in the given space.
// Vectors must have equal length.
func Distance(space domain.DistanceSpace, a, b []float32) float64 {
	switch space {
	case domain.DistanceCosine:
		return 1 - cosine(a, b)
	case domain.DistanceIP:
		return 1 - dot(a, b)
	default:
		return squaredL2(a, b)
	}
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func cosine(a, b []float32) float64 {
	var ab, aa, bb float64
	for i := range a {
		ab += float64(a[i]) * float64(b[i])
		aa += float64(a[i]) * float64(a[i])
		bb += float64(b[i]) * float64(b[i])
	}
	if aa == 0 || bb == 0 {
		return 0
	}
	return ab / (math.Sqrt(aa) * math.Sqrt(bb))
}

// Candidate is a stored vector considered for a query.
type Candidate struct {
	ID     string
	Vector []float32
}

// Nearest returns, for each query, up to n candidates ordered by ascending
// distance. Ties keep candidate order. Candidates whose dimension differs
// from the query fail with domain.ErrDimensionMismatch.
func Nearest(space domain.DistanceSpace, candidates []Candidate, queries [][]float32, n int) (*domain.QueryResult, error) {
	result := &domain.QueryResult{
		IDs:       make([][]string, len(queries)),
		Distances: make([][]float64, len(queries)),
	}
	type scored struct {
		id string
		d  float64
	}
	for qi, q := range queries {
		all := make([]scored, 0, len(candidates))
		for _, c := range candidates {
			if len(c.Vector) != len(q) {
				return nil, fmt.Errorf("%w: %s has %d dimensions, query has %d",
					domain.ErrDimensionMismatch, c.ID, len(c.Vector), len(q))
			}
			all = append(all, scored{c.ID, Distance(space, q, c.Vector)})
		}
		sort.SliceStable(all, func(i, j int) bool { return all[i].d < all[j].d })
		if n > 0 && len(all) > n {
			all = all[:n]
		}
		ids := make([]string, len(all))
		dists := make([]float64, len(all))
		for i, s := range all {
			ids[i] = s.id
			dists[i] = s.d
		}
		result.IDs[qi] = ids
		result.Distances[qi] = dists
	}
	return result, nil
}
