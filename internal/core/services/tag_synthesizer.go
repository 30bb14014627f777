package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// TagSynthesizer labels a dendrogram bottom-up. Every leaf gets an oracle
// tag. An internal node whose normalized distance is strictly below the
// threshold gets a synthesized parent tag over both children; any other
// node is flattened, exposing its children's tags as siblings.
type TagSynthesizer struct {
	oracle    driven.LabelingOracle
	prompts   driven.PromptStore
	threshold float64
}

// NewTagSynthesizer creates a synthesizer. prompts may be nil.
func NewTagSynthesizer(oracle driven.LabelingOracle, prompts driven.PromptStore, threshold float64) *TagSynthesizer {
	return &TagSynthesizer{
		oracle:    oracle,
		prompts:   prompts,
		threshold: threshold,
	}
}

// Synthesize walks the tree in post-order and returns the tag tree with the
// number of oracle calls made. contents and ids are indexed by leaf index.
// Any oracle failure aborts the walk and no tag tree is returned.
func (s *TagSynthesizer) Synthesize(
	ctx context.Context,
	root domain.ClusterNode,
	contents []string,
	ids domain.IndexIDMap,
) (domain.TagForest, int, error) {
	if s.oracle == nil {
		return nil, 0, domain.ErrLLMUnavailable
	}
	if root == nil {
		return nil, 0, fmt.Errorf("%w: nil cluster tree", domain.ErrInvalidInput)
	}
	if len(contents) != len(ids) {
		return nil, 0, fmt.Errorf("%w: %d contents for %d ids", domain.ErrInvalidInput, len(contents), len(ids))
	}

	w := &synthesisWalk{
		s:            s,
		contents:     contents,
		ids:          ids,
		leafPrompt:   loadPrompt(s.prompts, driven.PromptLeafTag),
		parentPrompt: loadPrompt(s.prompts, driven.PromptParentTag),
	}
	forest, err := w.walk(ctx, root)
	if err != nil {
		return nil, w.calls, err
	}
	logger.Debug("tag synthesis made %d oracle calls", w.calls)
	return forest, w.calls, nil
}

// synthesisWalk carries per-run state through the recursion.
type synthesisWalk struct {
	s            *TagSynthesizer
	contents     []string
	ids          domain.IndexIDMap
	leafPrompt   string
	parentPrompt string
	calls        int
}

func (w *synthesisWalk) walk(ctx context.Context, node domain.ClusterNode) (domain.TagForest, error) {
	switch n := node.(type) {
	case *domain.ClusterLeaf:
		if n.Idx < 0 || n.Idx >= len(w.contents) {
			return nil, fmt.Errorf("%w: leaf index %d out of range", domain.ErrInvalidInput, n.Idx)
		}
		tag, err := w.label(ctx, fmt.Sprintf(w.leafPrompt, w.ids[n.Idx], w.contents[n.Idx]))
		if err != nil {
			return nil, fmt.Errorf("%w: leaf %d (%s): %w", domain.ErrOracleFailed, n.Idx, w.ids[n.Idx], err)
		}
		return domain.TagForest{domain.TagLeaf{Tag: tag, Index: n.Idx}}, nil

	case *domain.ClusterInternal:
		left, err := w.walk(ctx, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := w.walk(ctx, n.Right)
		if err != nil {
			return nil, err
		}

		children := make(domain.TagForest, 0, len(left)+len(right))
		children = append(children, left...)
		children = append(children, right...)

		if n.NormalizedDistance >= w.s.threshold {
			return children, nil
		}

		listing, err := json.Marshal(children.Labels())
		if err != nil {
			return nil, fmt.Errorf("encode child tags: %w", err)
		}
		parent, err := w.label(ctx, fmt.Sprintf(w.parentPrompt, listing))
		if err != nil {
			return nil, fmt.Errorf("%w: node %d: %w", domain.ErrOracleFailed, n.Idx, err)
		}
		return domain.TagForest{domain.TagGroup{Tag: parent, Children: children}}, nil

	default:
		return nil, fmt.Errorf("%w: unknown cluster node %T", domain.ErrInvalidInput, node)
	}
}

func (w *synthesisWalk) label(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	w.calls++
	raw, err := w.s.oracle.Label(ctx, prompt)
	if err != nil {
		return "", err
	}
	return NormalizeLabel(raw)
}

// loadPrompt returns the named template, falling back to the built-in one.
func loadPrompt(store driven.PromptStore, name string) string {
	if store != nil {
		if p, err := store.Load(name); err == nil && p != "" {
			return p
		}
	}
	return domain.DefaultPrompts()[name]
}
