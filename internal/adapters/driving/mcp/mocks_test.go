package mcp

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

// mockTaggingService is a mock implementation of driving.TaggingService.
type mockTaggingService struct {
	result   *domain.TagResult
	err      error
	applyErr error
	gotReq   domain.TagRequest
	applied  map[string]domain.TagAssignment
}

func (m *mockTaggingService) GenerateTags(_ context.Context, req domain.TagRequest) (*domain.TagResult, error) {
	m.gotReq = req
	return m.result, m.err
}

func (m *mockTaggingService) ApplyTags(_ context.Context, tags map[string]domain.TagAssignment) (int, error) {
	m.applied = tags
	return len(tags), m.applyErr
}

// mockLinkService is a mock implementation of driving.LinkService.
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

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	count    int
	err      error
	files    []domain.FileRef
	wholeRun bool
}

func (m *mockIndexService) Ingest(_ context.Context, _ string, files []domain.FileRef) (int, error) {
	m.files = files
	return len(files), m.err
}

func (m *mockIndexService) IngestVault(_ context.Context) (int, error) {
	m.wholeRun = true
	return m.count, m.err
}

func (m *mockIndexService) Count(_ context.Context) (int, error) {
	return m.count, m.err
}
