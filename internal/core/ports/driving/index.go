package driving

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// IndexService keeps the embedding store in step with the vault.
type IndexService interface {
	// Ingest reads each file from the vault and upserts it. vaultDir
	// overrides the configured vault when non-empty.
	Ingest(ctx context.Context, vaultDir string, files []domain.FileRef) (int, error)

	// IngestVault upserts every markdown note in the configured vault.
	IngestVault(ctx context.Context) (int, error)

	// Count returns the number of indexed documents.
	Count(ctx context.Context) (int, error)
}
