package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// Ensure TaggingService implements the interface.
var _ driving.TaggingService = (*TaggingService)(nil)

// TaggingDeps are the collaborators of a TaggingService.
// Artifacts, Prompts and Vault are optional.
type TaggingDeps struct {
	Store     driven.EmbeddingStore
	Clusterer driven.Clusterer
	Oracles   driven.OracleProvider
	Prompts   driven.PromptStore
	Artifacts driven.ArtifactStore
	Vault     driven.Vault
	Indexer   driving.IndexService
}

// TaggingService runs the full tag pipeline over a collection.
type TaggingService struct {
	deps       TaggingDeps
	settings   domain.TaggingSettings
	collection string
}

// NewTaggingService creates a new tagging service.
func NewTaggingService(deps TaggingDeps, settings domain.TaggingSettings, collection string) *TaggingService {
	return &TaggingService{
		deps:       deps,
		settings:   settings,
		collection: collection,
	}
}

// GenerateTags ingests the request files, then clusters and tags every
// document in the collection. Nothing is returned unless every oracle call
// succeeds.
func (s *TaggingService) GenerateTags(ctx context.Context, req domain.TagRequest) (*domain.TagResult, error) {
	if s.deps.Store == nil {
		return nil, domain.ErrNotImplemented
	}
	if s.deps.Oracles == nil {
		return nil, domain.ErrLLMUnavailable
	}
	threshold, mode := s.settings.Threshold, s.settings.Projection()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if req.Projection != "" {
		if !req.Projection.IsValid() {
			return nil, fmt.Errorf("%w: projection %q", domain.ErrInvalidInput, req.Projection)
		}
		mode = req.Projection
	}
	oracle, err := s.deps.Oracles.Oracle(req.APIKey)
	if err != nil {
		return nil, err
	}
	defer oracle.Close()

	if len(req.Files) > 0 {
		if s.deps.Indexer == nil {
			return nil, fmt.Errorf("%w: ingestion not configured", domain.ErrInvalidInput)
		}
		logger.Section("Ingest")
		if _, err := s.deps.Indexer.Ingest(ctx, req.VaultPath, req.Files); err != nil {
			return nil, err
		}
	}

	snap, err := s.deps.Store.ListAll(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	if snap.Len() < 2 {
		return nil, domain.ErrInsufficientDocuments
	}
	ids := snap.IndexIDMap()

	logger.Section("Clustering")
	tree, err := NewClusterTreeBuilder(s.deps.Clusterer).Build(ctx, snap.Embeddings)
	if err != nil {
		return nil, err
	}

	runID := ""
	if s.artifactsEnabled() {
		runID = s.deps.Artifacts.NewRun()
	}
	s.artifact(ctx, runID, driven.ArtifactTree, tree)
	s.artifact(ctx, runID, driven.ArtifactTreeIDMap, ids)

	logger.Section("Tag synthesis")
	synth := NewTagSynthesizer(oracle, s.deps.Prompts, threshold)
	forest, calls, err := synth.Synthesize(ctx, tree, snap.Documents, ids)
	if err != nil {
		return nil, err
	}
	s.artifact(ctx, runID, driven.ArtifactTagTree, forest)

	byIndex, byID, err := NewIndexTagProjector(mode).ProjectIDs(forest, ids)
	if err != nil {
		return nil, err
	}
	s.artifact(ctx, runID, driven.ArtifactIndexTags, byIndex)
	s.artifact(ctx, runID, driven.ArtifactIDTags, byID)

	logger.Info("tagged %d documents with %d oracle calls", len(byID), calls)
	return &domain.TagResult{
		RunID:       runID,
		Tags:        byID,
		Tree:        forest,
		OracleCalls: calls,
	}, nil
}

// ApplyTags writes each document's tags into its note frontmatter. Notes
// that fail are reported together after the rest are written.
func (s *TaggingService) ApplyTags(ctx context.Context, tags map[string]domain.TagAssignment) (int, error) {
	if s.deps.Vault == nil {
		return 0, fmt.Errorf("%w: no vault configured", domain.ErrInvalidInput)
	}
	written := 0
	var errs []error
	for id, a := range tags {
		if err := s.deps.Vault.ApplyTags(ctx, id, a.Tags); err != nil {
			errs = append(errs, fmt.Errorf("apply tags to %s: %w", id, err))
			continue
		}
		written++
	}
	return written, errors.Join(errs...)
}

func (s *TaggingService) artifactsEnabled() bool {
	return s.deps.Artifacts != nil && s.settings.Artifacts
}

// artifact is a no-op unless a run id was minted for this run.
func (s *TaggingService) artifact(ctx context.Context, runID, name string, v any) {
	if runID == "" {
		return
	}
	if err := s.deps.Artifacts.Write(ctx, runID, name, v); err != nil {
		logger.Warn("write artifact %s: %v", name, err)
	}
}
