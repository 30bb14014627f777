package httpapi

import (
	"context"

	"github.com/custodia-labs/vaultag/internal/core/domain"
)

type mockTaggingService struct {
	result   *domain.TagResult
	err      error
	applyErr error
	panics   bool
	gotReq   domain.TagRequest
	applied  map[string]domain.TagAssignment
}

func (m *mockTaggingService) GenerateTags(_ context.Context, req domain.TagRequest) (*domain.TagResult, error) {
	if m.panics {
		panic("clusterer exploded")
	}
	m.gotReq = req
	return m.result, m.err
}

func (m *mockTaggingService) ApplyTags(_ context.Context, tags map[string]domain.TagAssignment) (int, error) {
	m.applied = tags
	if m.applyErr != nil {
		return 0, m.applyErr
	}
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
