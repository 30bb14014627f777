package driven

import "github.com/custodia-labs/vaultag/internal/core/domain"

// AIConfigValidator checks that configured providers are reachable before
// settings are relied on. Settings that are not configured pass.
type AIConfigValidator interface {
	// ValidateEmbedding fails with domain.ErrEmbeddingUnavailable when the
	// embedding provider cannot be reached.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM fails with domain.ErrLLMUnavailable when the labeling
	// provider cannot be reached.
	ValidateLLM(settings *domain.LLMSettings) error
}
