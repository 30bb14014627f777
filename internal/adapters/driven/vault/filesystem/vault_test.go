package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

func newTestVault(t *testing.T, files map[string]string) *Vault {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	v, err := New(dir)
	require.NoError(t, err)
	return v
}

func readNote(t *testing.T, v *Vault, path string) string {
	t.Helper()
	content, err := v.Read(context.Background(), path)
	require.NoError(t, err)
	return content
}

// splitNote parses the frontmatter of content and returns it with the body.
func splitNote(t *testing.T, content string) (map[string]any, string) {
	t.Helper()
	loc := frontmatterRe.FindStringSubmatchIndex(content)
	require.NotNil(t, loc, "note has no frontmatter:\n%s", content)
	meta := map[string]any{}
	if loc[2] >= 0 {
		require.NoError(t, yaml.Unmarshal([]byte(content[loc[2]:loc[3]]), &meta))
	}
	return meta, content[loc[1]:]
}

func TestNew(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(file)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	v, err := New(t.TempDir())
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.Root()))
}

func TestVault_Read(t *testing.T) {
	v := newTestVault(t, map[string]string{"notes/a.md": "alpha"})
	ctx := context.Background()

	got, err := v.Read(ctx, "notes/a.md")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	got, err = v.Read(ctx, filepath.Join(v.Root(), "notes", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	_, err = v.Read(ctx, "notes/missing.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVault_ReadOutsideVault(t *testing.T) {
	v := newTestVault(t, nil)
	ctx := context.Background()

	for _, p := range []string{"../secret.md", "notes/../../x.md", "/etc/passwd", ".", ""} {
		_, err := v.Read(ctx, p)
		assert.Error(t, err, p)
		if p != "" {
			assert.ErrorIs(t, err, domain.ErrOutsideVault, p)
		}
	}
}

func TestVault_List(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"b.md":                  "",
		"a/c.MD":                "",
		"a/d.txt":               "",
		".obsidian/plugins.md":  "",
		"a/.hidden/e.md":        "",
		"attachments/image.png": "",
	})

	got, err := v.List(context.Background(), "md")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/c.MD", "b.md"}, got)

	got, err = v.List(context.Background(), ".txt", "png")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/d.txt", "attachments/image.png"}, got)

	got, err = v.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestVault_ListCancelled(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.md": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.List(ctx, "md")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVault_ApplyTagsCreatesFrontmatter(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.md": "# Title\n\nbody\n"})

	require.NoError(t, v.ApplyTags(context.Background(), "a.md", []string{"science", "physics"}))

	meta, body := splitNote(t, readNote(t, v, "a.md"))
	assert.Equal(t, []any{"science", "physics"}, meta["tags"])
	assert.Equal(t, "# Title\n\nbody\n", body)
}

func TestVault_ApplyTagsMergesExisting(t *testing.T) {
	note := "---\ntitle: Note\ntags:\n  - science\naliases: [n]\n---\nbody\n"
	v := newTestVault(t, map[string]string{"a.md": note})

	require.NoError(t, v.ApplyTags(context.Background(), "a.md", []string{"science", "physics", "physics"}))

	content := readNote(t, v, "a.md")
	meta, body := splitNote(t, content)
	assert.Equal(t, []any{"science", "physics"}, meta["tags"])
	assert.Equal(t, "Note", meta["title"])
	assert.Equal(t, []any{"n"}, meta["aliases"])
	assert.Equal(t, "body\n", body)
	assert.Less(t, strings.Index(content, "title"), strings.Index(content, "aliases"), "key order is kept")
}

func TestVault_ApplyTagsScalarAndMissingKey(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"scalar.md":  "---\ntags: a, b\n---\nx",
		"nokey.md":   "---\ntitle: T\n---\nx",
		"empty.md":   "---\n---\nx",
		"nulltag.md": "---\ntags:\n---\nx",
	})
	ctx := context.Background()

	require.NoError(t, v.ApplyTags(ctx, "scalar.md", []string{"c"}))
	meta, _ := splitNote(t, readNote(t, v, "scalar.md"))
	assert.Equal(t, []any{"a", "b", "c"}, meta["tags"])

	require.NoError(t, v.ApplyTags(ctx, "nokey.md", []string{"c"}))
	meta, _ = splitNote(t, readNote(t, v, "nokey.md"))
	assert.Equal(t, []any{"c"}, meta["tags"])
	assert.Equal(t, "T", meta["title"])

	require.NoError(t, v.ApplyTags(ctx, "empty.md", []string{"c"}))
	meta, body := splitNote(t, readNote(t, v, "empty.md"))
	assert.Equal(t, []any{"c"}, meta["tags"])
	assert.Equal(t, "x", body)

	require.NoError(t, v.ApplyTags(ctx, "nulltag.md", []string{"c"}))
	meta, _ = splitNote(t, readNote(t, v, "nulltag.md"))
	assert.Equal(t, []any{"c"}, meta["tags"])
}

func TestVault_ApplyTagsNumericLikeTag(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.md": "x"})

	require.NoError(t, v.ApplyTags(context.Background(), "a.md", []string{"2024"}))

	meta, _ := splitNote(t, readNote(t, v, "a.md"))
	assert.Equal(t, []any{"2024"}, meta["tags"])
}

func TestVault_ApplyTagsNoChange(t *testing.T) {
	note := "---\ntags: [science]\n---\nbody"
	v := newTestVault(t, map[string]string{"a.md": note})
	ctx := context.Background()

	require.NoError(t, v.ApplyTags(ctx, "a.md", []string{"science"}))
	require.NoError(t, v.ApplyTags(ctx, "a.md", nil))

	assert.Equal(t, note, readNote(t, v, "a.md"))
}

func TestVault_ApplyTagsInvalidFrontmatter(t *testing.T) {
	v := newTestVault(t, map[string]string{
		"bad.md":  "---\ntitle: [unclosed\n---\nx",
		"list.md": "---\n- a\n- b\n---\nx",
	})
	ctx := context.Background()

	assert.ErrorIs(t, v.ApplyTags(ctx, "bad.md", []string{"c"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, v.ApplyTags(ctx, "list.md", []string{"c"}), domain.ErrInvalidInput)
	assert.ErrorIs(t, v.ApplyTags(ctx, "missing.md", []string{"c"}), domain.ErrNotFound)
}

func TestVault_AppendLinks(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.md": "body with [[c.md]] and [[d.md|alias]]"})
	ctx := context.Background()

	require.NoError(t, v.AppendLinks(ctx, "a.md", []string{"b.md", "c.md", "d.md", "e.md", "b.md"}))

	assert.Equal(t,
		"body with [[c.md]] and [[d.md|alias]]\n\n## Related\n[[b.md]]\n[[e.md]]\n",
		readNote(t, v, "a.md"))

	// A second call finds every link present.
	require.NoError(t, v.AppendLinks(ctx, "a.md", []string{"b.md", "e.md"}))
	assert.Equal(t,
		"body with [[c.md]] and [[d.md|alias]]\n\n## Related\n[[b.md]]\n[[e.md]]\n",
		readNote(t, v, "a.md"))
}

func TestVault_WriteKeepsMode(t *testing.T) {
	v := newTestVault(t, map[string]string{"a.md": "x"})
	p := filepath.Join(v.Root(), "a.md")
	require.NoError(t, os.Chmod(p, 0o600))

	require.NoError(t, v.AppendLinks(context.Background(), "a.md", []string{"b.md"}))

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(v.Root())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
