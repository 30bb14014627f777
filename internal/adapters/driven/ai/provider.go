package ai

import (
	"fmt"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure OracleProvider implements the interface.
var _ driven.OracleProvider = (*OracleProvider)(nil)

// OracleProvider builds oracles from fixed LLM settings. A request may carry
// its own API key, which replaces the configured one for that oracle only.
type OracleProvider struct {
	settings domain.LLMSettings
	prompts  driven.PromptStore
}

// NewOracleProvider creates a provider for settings.
func NewOracleProvider(settings domain.LLMSettings, prompts driven.PromptStore) *OracleProvider {
	return &OracleProvider{settings: settings, prompts: prompts}
}

// Oracle returns a new oracle. The caller closes it.
func (p *OracleProvider) Oracle(apiKey string) (driven.LabelingOracle, error) {
	settings := p.settings
	if apiKey != "" {
		settings.APIKey = apiKey
	}
	if !settings.IsConfigured() {
		if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
			return nil, fmt.Errorf("%w: no API key for %s", domain.ErrLLMUnavailable, settings.Provider)
		}
		return nil, fmt.Errorf("%w: provider %q", domain.ErrLLMUnavailable, settings.Provider)
	}
	return CreateOracle(&settings, p.prompts)
}
