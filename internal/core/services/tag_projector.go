package services

import (
	"fmt"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// IndexTagProjector turns a tag tree into per-document tag assignments by
// walking every root-to-leaf tag path.
type IndexTagProjector struct {
	mode domain.ProjectionMode
}

// NewIndexTagProjector creates a projector. An empty mode means
// domain.ProjectAncestors.
func NewIndexTagProjector(mode domain.ProjectionMode) *IndexTagProjector {
	if mode == "" {
		mode = domain.ProjectAncestors
	}
	return &IndexTagProjector{mode: mode}
}

// projection is the traversal accumulator: the current tag path and the
// assignments recorded so far.
type projection struct {
	path []string
	out  map[int]domain.TagAssignment
}

// Project returns the tag assignment for every leaf index in the forest.
// A path of length one yields that single tag. Longer paths yield the
// ancestor tags only, or the full path in domain.ProjectFullPath mode.
func (p *IndexTagProjector) Project(forest domain.TagForest) map[int]domain.TagAssignment {
	acc := p.walk(forest, projection{out: make(map[int]domain.TagAssignment)})
	return acc.out
}

func (p *IndexTagProjector) walk(forest domain.TagForest, acc projection) projection {
	for _, node := range forest {
		acc.path = append(acc.path, node.Label())
		switch n := node.(type) {
		case domain.TagLeaf:
			acc.out[n.Index] = p.assign(acc.path)
		case domain.TagGroup:
			acc = p.walk(n.Children, acc)
		}
		acc.path = acc.path[:len(acc.path)-1]
	}
	return acc
}

func (p *IndexTagProjector) assign(path []string) domain.TagAssignment {
	if len(path) == 1 {
		return domain.TagAssignment{Tags: []string{path[0]}, Single: true}
	}
	keep := len(path) - 1
	if p.mode == domain.ProjectFullPath {
		keep = len(path)
	}
	tags := make([]string, keep)
	copy(tags, path[:keep])
	return domain.TagAssignment{Tags: tags}
}

// ProjectIDs projects the forest and keys the result by document ID.
func (p *IndexTagProjector) ProjectIDs(
	forest domain.TagForest,
	ids domain.IndexIDMap,
) (map[int]domain.TagAssignment, map[string]domain.TagAssignment, error) {
	byIndex := p.Project(forest)
	byID := make(map[string]domain.TagAssignment, len(byIndex))
	for idx, a := range byIndex {
		if idx < 0 || idx >= len(ids) {
			return nil, nil, fmt.Errorf("%w: tag tree index %d has no document", domain.ErrInvalidInput, idx)
		}
		byID[ids[idx]] = a
	}
	return byIndex, byID, nil
}
