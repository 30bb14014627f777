package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// Ensure LinkService implements the interface.
var _ driving.LinkService = (*LinkService)(nil)

// LinkService answers related-note queries and writes links back to notes.
type LinkService struct {
	finder    *NeighborLinkFinder
	vault     driven.Vault
	artifacts driven.ArtifactStore

	normalisers []driven.Normaliser
}

// NewLinkService creates a new link service. vault and artifacts may be nil.
func NewLinkService(finder *NeighborLinkFinder, vault driven.Vault, artifacts driven.ArtifactStore) *LinkService {
	return &LinkService{
		finder:    finder,
		vault:     vault,
		artifacts: artifacts,
	}
}

// SetNormalisers sets the normalisers applied to query content.
func (s *LinkService) SetNormalisers(n ...driven.Normaliser) {
	s.normalisers = n
}

// FindRelated returns the note's neighbours within the distance threshold.
// A request without content reads the note from the vault.
func (s *LinkService) FindRelated(ctx context.Context, req domain.LinkRequest) (*domain.LinkResult, error) {
	if s.finder == nil {
		return nil, domain.ErrNotImplemented
	}
	if req.Content == "" && req.Path != "" && s.vault != nil {
		content, err := s.vault.Read(ctx, req.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", req.Path, err)
		}
		req.Content = content
	}
	req.Content = normalise(s.normalisers, extOf(req.Path), req.Content)
	result, err := s.finder.Find(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.artifacts != nil {
		if err := s.artifacts.Write(ctx, s.artifacts.NewRun(), driven.ArtifactLinkQuery, result); err != nil {
			logger.Warn("write artifact %s: %v", driven.ArtifactLinkQuery, err)
		}
	}
	return result, nil
}

// AppendRelated writes the first result row as wiki links into the note.
func (s *LinkService) AppendRelated(ctx context.Context, path string, result *domain.LinkResult) error {
	if s.vault == nil {
		return fmt.Errorf("%w: no vault configured", domain.ErrInvalidInput)
	}
	if result == nil || len(result.IDs) == 0 || len(result.IDs[0]) == 0 {
		return nil
	}
	return s.vault.AppendLinks(ctx, path, result.IDs[0])
}
