package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// DefaultPingTimeout bounds each connectivity check.
const DefaultPingTimeout = 5 * time.Second

// ConfigValidator checks provider settings by building the client and
// pinging it. Unconfigured settings pass, since there is nothing to reach.
type ConfigValidator struct {
	Timeout time.Duration
}

// NewConfigValidator creates a validator using DefaultPingTimeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{Timeout: DefaultPingTimeout}
}

// ValidateEmbedding pings the configured embedding provider.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	defer svc.Close()

	return v.ping(domain.ErrEmbeddingUnavailable, string(settings.Provider), svc.Ping)
}

// ValidateLLM pings the configured labeling provider.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	oracle, err := CreateOracle(settings, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	defer oracle.Close()

	return v.ping(domain.ErrLLMUnavailable, string(settings.Provider), oracle.Ping)
}

func (v *ConfigValidator) ping(sentinel error, provider string, ping func(context.Context) error) error {
	timeout := v.Timeout
	if timeout <= 0 {
		timeout = DefaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", sentinel, provider, err)
	}
	return nil
}
