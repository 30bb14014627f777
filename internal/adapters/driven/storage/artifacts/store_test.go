package artifacts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

func TestStore_NewRun(t *testing.T) {
	s := NewStore(t.TempDir())
	s.now = func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }

	a, b := s.NewRun(), s.NewRun()

	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^20260301T093000-[0-9a-f]{8}$`, a)
}

func TestStore_Write(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	run := s.NewRun()

	err := s.Write(context.Background(), run, driven.ArtifactIDTags, map[string][]string{
		"notes/a.md": {"science"},
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "artifacts", run, driven.ArtifactIDTags)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got map[string][]string
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"science"}, got["notes/a.md"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestStore_WriteOverwrites(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "run", "x.json", []int{1}))
	require.NoError(t, s.Write(ctx, "run", "x.json", []int{2}))

	data, err := os.ReadFile(filepath.Join(s.Root(), "run", "x.json"))
	require.NoError(t, err)
	assert.JSONEq(t, "[2]", string(data))
}

func TestStore_WriteRejectsPaths(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	for _, tc := range []struct{ run, name string }{
		{"", "a.json"},
		{"..", "a.json"},
		{"run", "../a.json"},
		{"a/b", "a.json"},
		{"run", ""},
	} {
		err := s.Write(ctx, tc.run, tc.name, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%q/%q", tc.run, tc.name)
	}
}

func TestStore_WriteUnmarshalable(t *testing.T) {
	s := NewStore(t.TempDir())

	err := s.Write(context.Background(), "run", "bad.json", make(chan int))

	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(s.Root(), "run", "bad.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_WriteCancelled(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Write(ctx, "run", "a.json", 1), context.Canceled)
}
