package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/vaultag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/services"
)

type mockIndexService struct {
	count    int
	err      error
	files    []domain.FileRef
	wholeRun bool
	ingested chan []domain.FileRef
}

func (m *mockIndexService) Ingest(_ context.Context, _ string, files []domain.FileRef) (int, error) {
	m.files = files
	if m.ingested != nil {
		m.ingested <- files
	}
	return len(files), m.err
}

func (m *mockIndexService) IngestVault(_ context.Context) (int, error) {
	m.wholeRun = true
	return m.count, m.err
}

func (m *mockIndexService) Count(_ context.Context) (int, error) {
	return m.count, nil
}

type mockTaggingService struct {
	result  *domain.TagResult
	err     error
	gotReq  domain.TagRequest
	applied map[string]domain.TagAssignment
}

func (m *mockTaggingService) GenerateTags(_ context.Context, req domain.TagRequest) (*domain.TagResult, error) {
	m.gotReq = req
	return m.result, m.err
}

func (m *mockTaggingService) ApplyTags(_ context.Context, tags map[string]domain.TagAssignment) (int, error) {
	m.applied = tags
	return len(tags), nil
}

type mockLinkService struct {
	result      *domain.LinkResult
	err         error
	gotReq      domain.LinkRequest
	appendedFor string
}

func (m *mockLinkService) FindRelated(_ context.Context, req domain.LinkRequest) (*domain.LinkResult, error) {
	m.gotReq = req
	return m.result, m.err
}

func (m *mockLinkService) AppendRelated(_ context.Context, path string, _ *domain.LinkResult) error {
	m.appendedFor = path
	return nil
}

type mockWatcher struct {
	batches [][]string
	err     error
}

func (m *mockWatcher) Root() string { return "/vault" }

func (m *mockWatcher) Watch(_ context.Context, _ ...string) (<-chan []string, error) {
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan []string, len(m.batches))
	for _, b := range m.batches {
		ch <- b
	}
	close(ch)
	return ch, nil
}

type testServices struct {
	index   *mockIndexService
	tagging *mockTaggingService
	links   *mockLinkService
	watcher *mockWatcher
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		index: &mockIndexService{count: 4},
		tagging: &mockTaggingService{result: &domain.TagResult{
			RunID: "run-1",
			Tags: map[string]domain.TagAssignment{
				"b.md": {Tags: []string{"Food", "Baking"}},
				"a.md": {Tags: []string{"Science"}, Single: true},
			},
			OracleCalls: 3,
		}},
		links: &mockLinkService{result: &domain.LinkResult{
			IDs:       [][]string{{"b.md", "c.md"}},
			Distances: [][]float64{{0.125, 0.25}},
		}},
		watcher: &mockWatcher{batches: [][]string{{"a.md"}, {"b.md", "c.md"}}},
	}
	useServices(&Services{
		Settings: services.NewSettingsService(memory.NewConfigStore(), nil),
		Index:    ts.index,
		Tagging:  ts.tagging,
		Links:    ts.links,
		Watcher:  ts.watcher,
		Server:   domain.DefaultAppSettings().Server,
	})
	return ts, resetServices
}

func resetServices() {
	services = nil
	settingsService = nil
	indexService = nil
	taggingService = nil
	linkService = nil
	vaultWatcher = nil
}

var errBoom = errors.New("boom")
