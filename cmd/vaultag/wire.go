package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/vaultag/internal/adapters/driven/ai"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/clustering/agglomerative"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/artifacts"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/qdrant"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/vault/filesystem"
	"github.com/custodia-labs/vaultag/internal/adapters/driving/cli"
	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/core/services"
	"github.com/custodia-labs/vaultag/internal/logger"
	"github.com/custodia-labs/vaultag/internal/normalisers/markdown"
)

// build wires adapters into services. Settings are always available so a
// broken configuration can be repaired; the rest is left nil with the
// reason recorded in SetupErr.
func build(_ context.Context, configDir string) (*cli.Services, error) {
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config directory: %w", err)
		}
		configDir = dir
	}
	if err := file.LoadDotEnv(".env", filepath.Join(configDir, ".env")); err != nil {
		logger.Warn("load .env: %v", err)
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	logger.Debug("config: %s", configStore.Path())

	out := &cli.Services{
		Settings: settingsService,
		Server:   settings.Server,
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	var closers []func() error
	out.Close = func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		out.SetupErr = fmt.Errorf("embedding: %w", err)
		return out, nil
	}
	closers = append(closers, embedder.Close)

	dataDir := filepath.Join(configDir, "data")
	store, err := openStore(settings.Store, dataDir, embedder)
	if err != nil {
		out.SetupErr = fmt.Errorf("store: %w", err)
		return out, nil
	}
	closers = append(closers, store.Close)

	var vault driven.Vault
	if settings.VaultDir != "" {
		fsVault, err := filesystem.New(settings.VaultDir)
		if err != nil {
			out.SetupErr = fmt.Errorf("vault: %w", err)
		} else {
			vault = fsVault
			out.Watcher = fsVault
		}
	}

	runs := artifacts.NewStore(dataDir)
	var linkArtifacts driven.ArtifactStore
	if settings.Tagging.Artifacts {
		linkArtifacts = runs
	}
	collection := settings.Store.Collection

	notes := markdown.New()
	index := services.NewIndexService(store, vault, collection)
	index.SetNormalisers(notes)
	out.Index = index
	out.Tagging = services.NewTaggingService(services.TaggingDeps{
		Store:     store,
		Clusterer: agglomerative.New(settings.Tagging.Linkage),
		Oracles:   ai.NewOracleProvider(settings.LLM, prompts),
		Prompts:   prompts,
		Artifacts: runs,
		Vault:     vault,
		Indexer:   index,
	}, settings.Tagging, collection)
	links := services.NewLinkService(
		services.NewNeighborLinkFinder(store, collection, settings.Links.Threshold, settings.Links.Neighbours),
		vault,
		linkArtifacts,
	)
	links.SetNormalisers(notes)
	out.Links = links
	return out, nil
}

// openStore opens the configured embedding store backend.
func openStore(settings domain.StoreSettings, dataDir string, embedder driven.EmbeddingService) (driven.EmbeddingStore, error) {
	switch settings.Backend {
	case domain.StoreQdrant:
		return qdrant.NewStore(qdrant.Config{
			Host: settings.QdrantHost,
			Port: settings.QdrantPort,
		}, embedder, settings.Distance)
	case domain.StoreMemory:
		return memory.NewEmbeddingStore(embedder, settings.Distance), nil
	case domain.StoreSQLite, "":
		return sqlite.NewStore(dataDir, embedder, settings.Distance)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, settings.Backend)
	}
}
