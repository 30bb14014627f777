package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingService = (*Embedder)(nil)

// Embedder is a lookup-table driven.EmbeddingService for testing. Each
// content string maps to a fixed vector; unknown content is an error.
type Embedder struct {
	mu      sync.RWMutex
	vectors map[string][]float32
	calls   int
}

// NewEmbedder creates an embedder answering from vectors.
func NewEmbedder(vectors map[string][]float32) *Embedder {
	if vectors == nil {
		vectors = make(map[string][]float32)
	}
	return &Embedder{vectors: vectors}
}

// Add registers the vector for content.
func (e *Embedder) Add(content string, vector []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[content] = vector
}

// Calls returns how many texts have been embedded.
func (e *Embedder) Calls() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.calls
}

// Embed returns the registered vector for text.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	v, ok := e.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector registered for %q", text)
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, nil
}

// EmbedBatch embeds each text in order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ModelName returns "memory".
func (e *Embedder) ModelName() string { return "memory" }

// Ping always succeeds.
func (e *Embedder) Ping(context.Context) error { return nil }

// Close is a no-op.
func (e *Embedder) Close() error { return nil }
