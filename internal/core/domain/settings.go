package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or labeling.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is any OpenAI-compatible chat API (OpenAI, Moonshot).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DistanceSpace is the metric the embedding store ranks neighbours by.
type DistanceSpace string

// Distance spaces.
const (
	// DistanceL2 is squared Euclidean distance.
	DistanceL2 DistanceSpace = "l2"

	// DistanceCosine is 1 - cosine similarity.
	DistanceCosine DistanceSpace = "cosine"

	// DistanceIP is 1 - inner product.
	DistanceIP DistanceSpace = "ip"
)

// IsValid returns true if the distance space is recognised.
func (d DistanceSpace) IsValid() bool {
	switch d {
	case DistanceL2, DistanceCosine, DistanceIP:
		return true
	default:
		return false
	}
}

// StoreBackend selects the embedding store implementation.
type StoreBackend string

// Store backends.
const (
	StoreSQLite StoreBackend = "sqlite"
	StoreQdrant StoreBackend = "qdrant"
	StoreMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreSQLite, StoreQdrant, StoreMemory:
		return true
	default:
		return false
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds labeling oracle configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI-compatible/Anthropic).
	APIKey string

	// Temperature is the sampling temperature for labeling calls.
	Temperature float64

	// RequestsPerSecond paces oracle calls. Zero disables pacing.
	RequestsPerSecond float64

	// Timeout bounds a single labeling call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StoreSettings holds embedding store configuration.
type StoreSettings struct {
	Backend    StoreBackend
	Collection string
	Distance   DistanceSpace
	QdrantHost string
	QdrantPort int
}

// TaggingSettings holds tag synthesis configuration.
type TaggingSettings struct {
	// Threshold is the normalized distance below which two clusters are
	// folded under a synthesized parent tag.
	Threshold float64

	// Linkage is the agglomerative clustering criterion.
	Linkage Linkage

	// FullPath keeps the terminal tag in each document's tag path.
	FullPath bool

	// Artifacts enables writing diagnostic snapshots for each run.
	Artifacts bool
}

// Projection returns the projection mode implied by FullPath.
func (t TaggingSettings) Projection() ProjectionMode {
	if t.FullPath {
		return ProjectFullPath
	}
	return ProjectAncestors
}

// LinkSettings holds related-note discovery configuration.
type LinkSettings struct {
	// Threshold is the largest neighbour distance kept.
	Threshold float64

	// Neighbours is how many nearest neighbours are queried.
	Neighbours int
}

// ServerSettings holds the HTTP API configuration.
type ServerSettings struct {
	Addr           string
	AllowedOrigins []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Store     StoreSettings
	Tagging   TaggingSettings
	Links     LinkSettings
	Server    ServerSettings

	// VaultDir is the vault root that document paths are relative to.
	VaultDir string
}

// Defaults used when no configuration is present.
const (
	DefaultCollection     = "main_vault"
	DefaultTagThreshold   = 0.5
	DefaultLinkThreshold  = 0.5
	DefaultNeighbours     = 10
	DefaultTemperature    = 0.6
	DefaultServerAddr     = "0.0.0.0:5000"
	DefaultQdrantPort     = 6334
	DefaultOracleTimeout  = 120 * time.Second
	DefaultObsidianOrigin = "app://obsidian.md"
)

// DefaultAppSettings returns settings with sensible defaults.
// The oracle defaults to an OpenAI-compatible endpoint and still needs an
// API key, either configured or sent with each tag request.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModels()[AIProviderOllama],
		},
		LLM: LLMSettings{
			Provider:    AIProviderOpenAI,
			Model:       DefaultLLMModels()[AIProviderOpenAI],
			Temperature: DefaultTemperature,
			Timeout:     DefaultOracleTimeout,
		},
		Store: StoreSettings{
			Backend:    StoreSQLite,
			Collection: DefaultCollection,
			Distance:   DistanceL2,
			QdrantHost: "localhost",
			QdrantPort: DefaultQdrantPort,
		},
		Tagging: TaggingSettings{
			Threshold: DefaultTagThreshold,
			Linkage:   LinkageWard,
		},
		Links: LinkSettings{
			Threshold:  DefaultLinkThreshold,
			Neighbours: DefaultNeighbours,
		},
		Server: ServerSettings{
			Addr:           DefaultServerAddr,
			AllowedOrigins: []string{DefaultObsidianOrigin},
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support labeling.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "kimi-k2-turbo-preview",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
