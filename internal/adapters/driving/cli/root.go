// Package cli provides the vaultag command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
	"github.com/custodia-labs/vaultag/internal/logger"
)

// annotationNoServices marks commands that run without building services.
const annotationNoServices = "vaultag/no-services"

// VaultWatcher streams batches of changed vault-relative note paths.
type VaultWatcher interface {
	Root() string
	Watch(ctx context.Context, extensions ...string) (<-chan []string, error)
}

// Services are the application services commands run against.
// Any field except Settings may be nil when its configuration is missing.
type Services struct {
	Settings driving.SettingsService
	Index    driving.IndexService
	Tagging  driving.TaggingService
	Links    driving.LinkService
	Watcher  VaultWatcher
	Server   domain.ServerSettings

	// SetupErr explains why optional services are missing.
	SetupErr error

	// Close releases stores and clients. May be nil.
	Close func() error
}

// Builder constructs Services once global flags are parsed.
type Builder func(ctx context.Context, configDir string) (*Services, error)

var (
	version   = "dev"
	verbose   bool
	configDir string
	builder   Builder
	services  *Services
)

// Service ports used by commands.
var (
	settingsService driving.SettingsService
	indexService    driving.IndexService
	taggingService  driving.TaggingService
	linkService     driving.LinkService
	vaultWatcher    VaultWatcher
	serverSettings  = domain.DefaultAppSettings().Server
)

var rootCmd = &cobra.Command{
	Use:   "vaultag",
	Short: "Semantic tags and related links for a note vault",
	Long: `vaultag embeds the notes of a vault, clusters them and asks a language
model to name each cluster, producing a hierarchical tag for every note.
It also finds notes that are semantically close to a given note.

Run 'vaultag ingest' to index the vault, then 'vaultag tags' or
'vaultag links <note>'. 'vaultag serve' exposes the same operations to
the vault plugin over HTTP.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.vaultag)")
}

// SetVersion sets the version printed by 'vaultag version'.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. build is called after flag parsing for
// every command that needs services.
func Execute(ctx context.Context, build Builder) error {
	builder = build
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if cmd.Annotations[annotationNoServices] == "true" || builder == nil || services != nil {
		return nil
	}
	s, err := builder(cmd.Context(), configDir)
	if err != nil {
		return err
	}
	useServices(s)
	if s.SetupErr != nil {
		logger.Warn("some services are unavailable: %v", s.SetupErr)
	}
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if services == nil || services.Close == nil {
		return nil
	}
	closeFn := services.Close
	services.Close = nil
	return closeFn()
}

// useServices installs s as the services commands run against.
func useServices(s *Services) {
	services = s
	settingsService = s.Settings
	indexService = s.Index
	taggingService = s.Tagging
	linkService = s.Links
	vaultWatcher = s.Watcher
	serverSettings = s.Server
	if serverSettings.Addr == "" {
		serverSettings.Addr = domain.DefaultServerAddr
	}
}

// notConfigured reports a missing service, with the setup error when known.
func notConfigured(name string) error {
	if services != nil && services.SetupErr != nil {
		return fmt.Errorf("%s service not configured: %w", name, services.SetupErr)
	}
	return errors.New(name + " service not configured")
}

// fileRefs converts command line paths to vault file references.
func fileRefs(paths []string) []domain.FileRef {
	refs := make([]domain.FileRef, len(paths))
	for i, p := range paths {
		refs[i] = domain.NewFileRef(filepath.ToSlash(p))
	}
	return refs
}
