package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure Vault implements the interface.
var _ driven.Vault = (*Vault)(nil)

// Vault is a note vault on the local filesystem.
type Vault struct {
	root string
}

// New returns a vault rooted at dir, which must be an existing directory.
func New(dir string) (*Vault, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: vault directory is required", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve vault directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, abs)
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault directory.
func (v *Vault) Root() string {
	return v.root
}

// resolve maps a vault-relative (or absolute, inside the vault) path to an
// absolute filesystem path.
func (v *Vault) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}
	p := filepath.FromSlash(path)
	if !filepath.IsAbs(p) {
		p = filepath.Join(v.root, p)
	}
	p = filepath.Clean(p)
	rel, err := filepath.Rel(v.root, p)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", domain.ErrOutsideVault, path)
	}
	return p, nil
}

// Read returns the note content at path.
func (v *Vault) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	abs, err := v.resolve(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// List walks the vault and returns sorted relative paths of files with the
// given extensions. Hidden directories such as .obsidian are skipped.
// With no extensions every file is listed.
func (v *Vault) List(ctx context.Context, extensions ...string) ([]string, error) {
	want := extSet(extensions)

	var paths []string
	err := filepath.WalkDir(v.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !want.match(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(v.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list vault: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// extensions is a set of lower-case extensions without the dot.
// An empty set matches every file.
type extensions map[string]bool

func extSet(exts []string) extensions {
	set := make(extensions, len(exts))
	for _, ext := range exts {
		set[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}
	return set
}

func (e extensions) match(name string) bool {
	if len(e) == 0 {
		return true
	}
	return e[strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))]
}

// ApplyTags merges tags into the note's frontmatter, creating the
// frontmatter block when the note has none. Tags already present are not
// repeated and the note is left untouched when nothing is added.
func (v *Vault) ApplyTags(ctx context.Context, path string, tags []string) error {
	content, err := v.Read(ctx, path)
	if err != nil {
		return err
	}
	updated, changed, err := mergeTags(content, tags)
	if err != nil {
		return fmt.Errorf("apply tags to %s: %w", path, err)
	}
	if !changed {
		return nil
	}
	return v.write(path, updated)
}

// AppendLinks appends a related section linking to targets. Targets the
// note already links to are skipped.
func (v *Vault) AppendLinks(ctx context.Context, path string, targets []string) error {
	content, err := v.Read(ctx, path)
	if err != nil {
		return err
	}
	updated, changed := appendLinks(content, targets)
	if !changed {
		return nil
	}
	return v.write(path, updated)
}

// write replaces the note through a temporary file in the same directory,
// keeping the original file mode.
func (v *Vault) write(path, content string) error {
	abs, err := v.resolve(path)
	if err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), "."+filepath.Base(abs)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after rename

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
