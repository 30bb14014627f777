package driving

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// TaggingService derives the collection-wide tag taxonomy.
type TaggingService interface {
	// GenerateTags ingests the request's files, clusters the whole
	// collection and synthesizes tags for every document.
	GenerateTags(ctx context.Context, req domain.TagRequest) (*domain.TagResult, error)

	// ApplyTags writes assigned tags into each note's frontmatter.
	// Returns the number of notes written.
	ApplyTags(ctx context.Context, tags map[string]domain.TagAssignment) (int, error)
}
