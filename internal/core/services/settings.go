package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/vaultag/internal/core/domain"
	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
	"github.com/custodia-labs/vaultag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTemperature  = "llm.temperature"
	keyLLMRate         = "llm.requests_per_second"
	keyLLMTimeout      = "llm.timeout_seconds"
	keyStoreBackend    = "store.backend"
	keyStoreCollection = "store.collection"
	keyStoreDistance   = "store.distance"
	keyQdrantHost      = "store.qdrant_host"
	keyQdrantPort      = "store.qdrant_port"
	keyTagThreshold    = "tagging.threshold"
	keyTagLinkage      = "tagging.linkage"
	keyTagFullPath     = "tagging.full_path"
	keyTagArtifacts    = "tagging.artifacts"
	keyLinkThreshold   = "links.threshold"
	keyLinkNeighbours  = "links.neighbours"
	keyVaultDir        = "vault.dir"
	keyServerAddr      = "server.addr"
	keyServerOrigins   = "server.allowed_origins"
)

// settingKind is the value type stored under a key.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// settingKinds lists every key Set accepts.
var settingKinds = map[string]settingKind{
	keyEmbedProvider:   kindString,
	keyEmbedModel:      kindString,
	keyEmbedBaseURL:    kindString,
	keyEmbedAPIKey:     kindString,
	keyLLMProvider:     kindString,
	keyLLMModel:        kindString,
	keyLLMBaseURL:      kindString,
	keyLLMAPIKey:       kindString,
	keyLLMTemperature:  kindFloat,
	keyLLMRate:         kindFloat,
	keyLLMTimeout:      kindInt,
	keyStoreBackend:    kindString,
	keyStoreCollection: kindString,
	keyStoreDistance:   kindString,
	keyQdrantHost:      kindString,
	keyQdrantPort:      kindInt,
	keyTagThreshold:    kindFloat,
	keyTagLinkage:      kindString,
	keyTagFullPath:     kindBool,
	keyTagArtifacts:    kindBool,
	keyLinkThreshold:   kindFloat,
	keyLinkNeighbours:  kindInt,
	keyVaultDir:        kindString,
	keyServerAddr:      kindString,
	keyServerOrigins:   kindList,
}

type storedSetting struct {
	key   string
	value any
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings, filling gaps with defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	llmProvider := s.getProvider(keyLLMProvider, d.LLM.Provider)
	embedProvider := s.getProvider(keyEmbedProvider, d.Embedding.Provider)

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: embedProvider,
			Model:    s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // empty uses the provider default
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:          llmProvider,
			Model:             s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL),
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			Temperature:       s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			RequestsPerSecond: s.getFloat(keyLLMRate, d.LLM.RequestsPerSecond),
			Timeout:           s.getSeconds(keyLLMTimeout, d.LLM.Timeout),
		},
		Store: domain.StoreSettings{
			Backend:    s.getBackend(d.Store.Backend),
			Collection: s.getString(keyStoreCollection, d.Store.Collection),
			Distance:   s.getDistance(d.Store.Distance),
			QdrantHost: s.getString(keyQdrantHost, d.Store.QdrantHost),
			QdrantPort: s.getInt(keyQdrantPort, d.Store.QdrantPort),
		},
		Tagging: domain.TaggingSettings{
			Threshold: s.getFloat(keyTagThreshold, d.Tagging.Threshold),
			Linkage:   s.getLinkage(d.Tagging.Linkage),
			FullPath:  s.getBool(keyTagFullPath, d.Tagging.FullPath),
			Artifacts: s.getBool(keyTagArtifacts, d.Tagging.Artifacts),
		},
		Links: domain.LinkSettings{
			Threshold:  s.getFloat(keyLinkThreshold, d.Links.Threshold),
			Neighbours: s.getInt(keyLinkNeighbours, d.Links.Neighbours),
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, d.Server.Addr),
			AllowedOrigins: s.getList(keyServerOrigins, d.Server.AllowedOrigins),
		},
		VaultDir: s.configStore.GetString(keyVaultDir),
	}

	return settings, nil
}

// Save persists application settings. Empty API keys are not written so
// a key supplied by the environment is never blanked in the file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []storedSetting{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMRate, settings.LLM.RequestsPerSecond},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyStoreBackend, string(settings.Store.Backend)},
		{keyStoreCollection, settings.Store.Collection},
		{keyStoreDistance, string(settings.Store.Distance)},
		{keyQdrantHost, settings.Store.QdrantHost},
		{keyQdrantPort, settings.Store.QdrantPort},
		{keyTagThreshold, settings.Tagging.Threshold},
		{keyTagLinkage, string(settings.Tagging.Linkage)},
		{keyTagFullPath, settings.Tagging.FullPath},
		{keyTagArtifacts, settings.Tagging.Artifacts},
		{keyLinkThreshold, settings.Links.Threshold},
		{keyLinkNeighbours, settings.Links.Neighbours},
		{keyVaultDir, settings.VaultDir},
		{keyServerAddr, settings.Server.Addr},
		{keyServerOrigins, settings.Server.AllowedOrigins},
	}
	if settings.Embedding.APIKey != "" {
		values = append(values, storedSetting{keyEmbedAPIKey, settings.Embedding.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, storedSetting{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindString:
		if err := validateEnum(key, value); err != nil {
			return err
		}
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		if (key == keyTagThreshold || key == keyLinkThreshold) && f < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindList:
		var items []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		parsed = items
	}

	return s.configStore.Set(key, parsed)
}

func validateEnum(key, value string) error {
	valid := true
	switch key {
	case keyEmbedProvider, keyLLMProvider:
		valid = domain.AIProvider(value).IsValid()
	case keyStoreBackend:
		valid = domain.StoreBackend(value).IsValid()
	case keyStoreDistance:
		valid = domain.DistanceSpace(value).IsValid()
	case keyTagLinkage:
		valid = domain.Linkage(value).IsValid()
	}
	if !valid {
		return fmt.Errorf("%w: invalid value %q for %s", domain.ErrInvalidInput, value, key)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}
	settings.Embedding.BaseURL = ""
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the labeling oracle provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	settings.LLM.BaseURL = ""
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("%w: embedding provider %q is not configured", domain.ErrEmbeddingUnavailable, settings.Embedding.Provider)
	}
	if settings.Tagging.Threshold < 0 || settings.Links.Threshold < 0 {
		return fmt.Errorf("%w: thresholds must not be negative", domain.ErrInvalidInput)
	}
	if settings.Store.Collection == "" {
		return fmt.Errorf("%w: store collection is empty", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current oracle configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

// getFloat distinguishes an explicit zero from an absent key, since a
// zero threshold is meaningful.
func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getList(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	b := domain.StoreBackend(s.configStore.GetString(keyStoreBackend))
	if !b.IsValid() {
		return defaultVal
	}
	return b
}

func (s *SettingsService) getDistance(defaultVal domain.DistanceSpace) domain.DistanceSpace {
	d := domain.DistanceSpace(s.configStore.GetString(keyStoreDistance))
	if !d.IsValid() {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getLinkage(defaultVal domain.Linkage) domain.Linkage {
	l := domain.Linkage(s.configStore.GetString(keyTagLinkage))
	if !l.IsValid() {
		return defaultVal
	}
	return l
}
