package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// --- Mock implementations ---

// testPrompts are compact templates that make oracle prompts easy to parse.
var testPrompts = mockPromptStore{
	driven.PromptLeafTag:   "LEAF|%s|%s",
	driven.PromptParentTag: "PARENT|%s",
}

// mockPromptStore implements driven.PromptStore from a map.
type mockPromptStore map[string]string

func (m mockPromptStore) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m mockPromptStore) Reload() {}

// mockOracle implements driven.LabelingOracle. With the test prompts it
// tags a leaf with its content and a parent with its children joined by '+'.
type mockOracle struct {
	mu      sync.Mutex
	prompts []string
	failOn  string
	answer  func(prompt string) string
	closed  bool
}

func (m *mockOracle) Label(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.failOn != "" && strings.Contains(prompt, m.failOn) {
		return "", errors.New("oracle unavailable")
	}
	if m.answer != nil {
		return m.answer(prompt), nil
	}
	return defaultAnswer(prompt), nil
}

func defaultAnswer(prompt string) string {
	switch {
	case strings.HasPrefix(prompt, "LEAF|"):
		parts := strings.SplitN(prompt, "|", 3)
		return "tag-" + parts[2]
	case strings.HasPrefix(prompt, "PARENT|"):
		listing := strings.TrimPrefix(prompt, "PARENT|")
		listing = strings.NewReplacer("[", "", "]", "", `"`, "").Replace(listing)
		return "(" + strings.ReplaceAll(listing, ",", "+") + ")"
	default:
		return "tag"
	}
}

func (m *mockOracle) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockOracle) ModelName() string          { return "mock" }
func (m *mockOracle) Ping(context.Context) error { return nil }

func (m *mockOracle) Close() error {
	m.closed = true
	return nil
}

// mockOracleProvider implements driven.OracleProvider.
type mockOracleProvider struct {
	oracle  *mockOracle
	err     error
	lastKey string
}

func (m *mockOracleProvider) Oracle(apiKey string) (driven.LabelingOracle, error) {
	m.lastKey = apiKey
	if m.err != nil {
		return nil, m.err
	}
	return m.oracle, nil
}

// mockClusterer implements driven.Clusterer with a fixed merge sequence.
type mockClusterer struct {
	merges []domain.Merge
	err    error
	points [][]float32
}

func (m *mockClusterer) Fit(_ context.Context, points [][]float32) ([]domain.Merge, error) {
	m.points = points
	return m.merges, m.err
}

// mockVault implements driven.Vault over an in-memory file map.
type mockVault struct {
	mu    sync.Mutex
	root  string
	files map[string]string
	tags  map[string][]string
	links map[string][]string
	fail  map[string]bool
}

func newMockVault(root string, files map[string]string) *mockVault {
	return &mockVault{
		root:  root,
		files: files,
		tags:  make(map[string][]string),
		links: make(map[string][]string),
		fail:  make(map[string]bool),
	}
}

func (m *mockVault) Root() string { return m.root }

func (m *mockVault) Read(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return c, nil
}

func (m *mockVault) List(_ context.Context, _ ...string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	return paths, nil
}

func (m *mockVault) ApplyTags(_ context.Context, path string, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[path] {
		return errors.New("read-only note")
	}
	m.tags[path] = tags
	return nil
}

func (m *mockVault) AppendLinks(_ context.Context, path string, targets []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[path] = append(m.links[path], targets...)
	return nil
}

// mockArtifacts implements driven.ArtifactStore in memory.
type mockArtifacts struct {
	mu      sync.Mutex
	runs    int
	written map[string]any
	err     error
}

func (m *mockArtifacts) NewRun() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	return fmt.Sprintf("run-%d", m.runs)
}

func (m *mockArtifacts) Write(_ context.Context, runID, name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.written == nil {
		m.written = make(map[string]any)
	}
	m.written[runID+"/"+name] = v
	return nil
}

// twoPairsMerges clusters four leaves as {0,1} and {2,3} with the pairs
// joined far apart: normalized distances 0.1, 0.2 and 1.0.
func twoPairsMerges() []domain.Merge {
	return []domain.Merge{
		{Left: 0, Right: 1, Distance: 0.5},
		{Left: 2, Right: 3, Distance: 1.0},
		{Left: 4, Right: 5, Distance: 5.0},
	}
}
