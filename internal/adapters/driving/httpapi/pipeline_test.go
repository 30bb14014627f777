package httpapi

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/vaultag/internal/adapters/driven/clustering/agglomerative"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vaultag/internal/adapters/driven/vault/filesystem"
	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/core/services"
)

// contentOracle names a leaf after its content and every parent "Group".
type contentOracle struct{}

func (contentOracle) Label(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "Child tags:") {
		return "Group", nil
	}
	i := strings.LastIndex(prompt, "content: ")
	return "Leaf" + strings.TrimSpace(prompt[i+len("content: "):]), nil
}

func (contentOracle) ModelName() string          { return "content" }
func (contentOracle) Ping(context.Context) error { return nil }
func (contentOracle) Close() error               { return nil }

type contentOracles struct{}

func (contentOracles) Oracle(string) (driven.LabelingOracle, error) { return contentOracle{}, nil }

// newPipelineServer serves a real tagging service over two tight pairs
// indexed from an empty temporary vault.
func newPipelineServer(t *testing.T) *Server {
	t.Helper()
	store := memory.NewEmbeddingStore(memory.NewEmbedder(map[string][]float32{
		"alpha": {0, 0},
		"beta":  {0, 0.1},
		"gamma": {10, 10},
		"delta": {10, 10.1},
	}), domain.DistanceL2)
	require.NoError(t, store.Upsert(context.Background(), "main_vault", []domain.Document{
		{ID: "a.md", Content: "alpha"},
		{ID: "b.md", Content: "beta"},
		{ID: "c.md", Content: "gamma"},
		{ID: "d.md", Content: "delta"},
	}))

	vault, err := filesystem.New(t.TempDir())
	require.NoError(t, err)

	tagging := services.NewTaggingService(services.TaggingDeps{
		Store:     store,
		Clusterer: agglomerative.New(domain.LinkageWard),
		Oracles:   contentOracles{},
		Vault:     vault,
		Indexer:   services.NewIndexService(store, vault, "main_vault"),
	}, domain.TaggingSettings{Threshold: 0.5, Linkage: domain.LinkageWard}, "main_vault")

	s, err := NewServer(&Ports{Tagging: tagging, Links: &mockLinkService{}}, domain.ServerSettings{})
	require.NoError(t, err)
	return s
}

func TestGetTags_Projection(t *testing.T) {
	s := newPipelineServer(t)

	t.Run("ancestors by default", func(t *testing.T) {
		w := do(s, http.MethodPost, "/get-tags", `{}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"tags": {
			"a.md": "Group", "b.md": "Group", "c.md": "Group", "d.md": "Group"
		}}`, w.Body.String())
	})

	t.Run("full_path keeps leaf tags", func(t *testing.T) {
		w := do(s, http.MethodPost, "/get-tags", `{"projection": "full_path"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"tags": {
			"a.md": ["Group", "Leafalpha"],
			"b.md": ["Group", "Leafbeta"],
			"c.md": ["Group", "Leafgamma"],
			"d.md": ["Group", "Leafdelta"]
		}}`, w.Body.String())
	})

	t.Run("unknown projection", func(t *testing.T) {
		w := do(s, http.MethodPost, "/get-tags", `{"projection": "leaves"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetTags_RejectsForeignVaultPath(t *testing.T) {
	s := newPipelineServer(t)

	for _, dir := range []string{"/", "/etc", "../"} {
		w := do(s, http.MethodPost, "/get-tags",
			`{"vault_path": "`+dir+`", "files": [{"path": "passwd", "name": "passwd"}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code, dir)
		assert.Contains(t, w.Body.String(), "path outside vault", dir)
		assert.NotContains(t, w.Body.String(), "root:", dir)
	}
}
