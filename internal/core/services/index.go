package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService loads vault notes into the embedding store.
type IndexService struct {
	store      driven.EmbeddingStore
	vault      driven.Vault
	collection string

	normalisers []driven.Normaliser
}

// NewIndexService creates a new index service. vault may be nil, in which
// case every ingest fails with domain.ErrInvalidInput.
func NewIndexService(store driven.EmbeddingStore, vault driven.Vault, collection string) *IndexService {
	return &IndexService{
		store:      store,
		vault:      vault,
		collection: collection,
	}
}

// SetNormalisers sets the normalisers applied to note content before it is
// embedded.
func (s *IndexService) SetNormalisers(n ...driven.Normaliser) {
	s.normalisers = n
}

// Ingest reads each file and upserts it with its extension as metadata type.
func (s *IndexService) Ingest(ctx context.Context, vaultDir string, files []domain.FileRef) (int, error) {
	if s.store == nil {
		return 0, domain.ErrNotImplemented
	}
	if len(files) == 0 {
		return 0, nil
	}

	v, err := s.resolveVault(vaultDir)
	if err != nil {
		return 0, err
	}

	docs := make([]domain.Document, 0, len(files))
	for _, f := range files {
		if f.Path == "" {
			return 0, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
		}
		content, err := v.Read(ctx, f.Path)
		if err != nil {
			return 0, fmt.Errorf("read %s: %w", f.Path, err)
		}
		ext := f.Extension
		if ext == "" {
			ext = extOf(f.Path)
		}
		docs = append(docs, domain.Document{
			ID:       f.Path,
			Content:  normalise(s.normalisers, ext, content),
			Metadata: map[string]any{domain.MetadataType: ext},
		})
	}

	logger.Debug("upserting %d documents into %s", len(docs), s.collection)
	if err := s.store.Upsert(ctx, s.collection, docs); err != nil {
		return 0, fmt.Errorf("upsert documents: %w", err)
	}
	return len(docs), nil
}

// IngestVault upserts every markdown note in the configured vault.
func (s *IndexService) IngestVault(ctx context.Context) (int, error) {
	if s.vault == nil {
		return 0, fmt.Errorf("%w: no vault configured", domain.ErrInvalidInput)
	}
	paths, err := s.vault.List(ctx, "md")
	if err != nil {
		return 0, fmt.Errorf("list vault: %w", err)
	}
	files := make([]domain.FileRef, len(paths))
	for i, p := range paths {
		files[i] = domain.FileRef{Path: p, Name: filepath.Base(p), Extension: "md"}
	}
	return s.Ingest(ctx, "", files)
}

// Count returns the number of indexed documents.
func (s *IndexService) Count(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, domain.ErrNotImplemented
	}
	return s.store.Count(ctx, s.collection)
}

// resolveVault accepts only the configured vault. A request naming any
// other directory is refused so callers cannot read files outside it.
func (s *IndexService) resolveVault(dir string) (driven.Vault, error) {
	if s.vault == nil {
		return nil, fmt.Errorf("%w: no vault configured", domain.ErrInvalidInput)
	}
	if dir != "" && filepath.Clean(dir) != filepath.Clean(s.vault.Root()) {
		return nil, fmt.Errorf("%w: %s is not the configured vault", domain.ErrOutsideVault, dir)
	}
	return s.vault, nil
}
