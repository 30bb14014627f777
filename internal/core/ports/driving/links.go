package driving

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// LinkService finds related notes.
type LinkService interface {
	// FindRelated upserts the note and returns its neighbours within the
	// configured distance threshold, excluding the note itself.
	FindRelated(ctx context.Context, req domain.LinkRequest) (*domain.LinkResult, error)

	// AppendRelated writes wiki links for the first result row into the note.
	AppendRelated(ctx context.Context, path string, result *domain.LinkResult) error
}
