// Package artifacts writes diagnostic JSON snapshots of tagging and link
// runs to disk. Each run gets its own directory under <dir>/artifacts.
package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

// Store is a filesystem artifact store.
type Store struct {
	root string
	now  func() time.Time
}

// NewStore returns a store writing below dataDir/artifacts.
func NewStore(dataDir string) *Store {
	return &Store{
		root: filepath.Join(dataDir, "artifacts"),
		now:  time.Now,
	}
}

// Root returns the directory runs are written into.
func (s *Store) Root() string {
	return s.root
}

// NewRun returns a run ID that sorts by creation time.
func (s *Store) NewRun() string {
	return s.now().UTC().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}

// Write marshals v as indented JSON to <root>/<runID>/<name>. The file is
// written to a temporary name first and renamed into place.
func (s *Store) Write(ctx context.Context, runID, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkSegment(runID); err != nil {
		return fmt.Errorf("run id: %w", err)
	}
	if err := checkSegment(name); err != nil {
		return fmt.Errorf("artifact name: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	dir := filepath.Join(s.root, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func checkSegment(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidInput, s)
	}
	return nil
}
