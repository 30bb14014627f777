// Package ai builds the embedding services and labeling oracles selected by
// the application settings.
package ai

import (
	"fmt"

	ollamaembed "github.com/custodia-labs/vaultag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/vaultag/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/vaultag/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/vaultag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/vaultag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateOracle creates the labeling oracle selected by settings. The oracle
// takes its system prompt from prompts when given and is paced when
// settings.RequestsPerSecond is positive.
func CreateOracle(settings *domain.LLMSettings, prompts driven.PromptStore) (driven.LabelingOracle, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrLLMUnavailable
	}

	var (
		oracle driven.LabelingOracle
		err    error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		oracle = ollamallm.NewOracle(ollamallm.Config{
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		})

	case domain.AIProviderOpenAI:
		oracle, err = openaillm.NewOracle(openaillm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		})

	case domain.AIProviderAnthropic:
		oracle, err = anthropicllm.NewOracle(anthropicllm.Config{
			APIKey:      settings.APIKey,
			BaseURL:     settings.BaseURL,
			Model:       settings.Model,
			Temperature: settings.Temperature,
			Timeout:     settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	if aware, ok := oracle.(driven.PromptStoreAware); ok && prompts != nil {
		aware.SetPromptStore(prompts)
	}
	if settings.RequestsPerSecond > 0 {
		oracle = NewRateLimitedOracle(oracle, settings.RequestsPerSecond)
	}
	return oracle, nil
}
