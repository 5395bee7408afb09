package domain

import "strings"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or text generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
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
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI and Gemini).
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

// LLMSettings holds text generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
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

// VectorBackend identifies the vector store implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendLocal is the file-backed index on local disk.
	VectorBackendLocal VectorBackend = "local"

	// VectorBackendRemote is the hosted, namespaced Pinecone index.
	VectorBackendRemote VectorBackend = "remote"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendLocal || b == VectorBackendRemote
}

// Description returns a human-readable description of the backend.
func (b VectorBackend) Description() string {
	switch b {
	case VectorBackendLocal:
		return "Local (file-backed index)"
	case VectorBackendRemote:
		return "Remote (Pinecone)"
	default:
		return unknownDescription
	}
}

// VectorStoreSettings holds the resolved vector store configuration.
type VectorStoreSettings struct {
	// Backend is the selected implementation.
	Backend VectorBackend

	// LocalDir is the index directory for the local backend.
	LocalDir string

	// IndexName is the remote index name.
	IndexName string

	// APIKey is the remote access credential.
	APIKey string

	// ControlURL is the remote control plane URL (optional).
	ControlURL string
}

// ResolveVectorBackend picks the remote backend only when both the index
// name and the credential are present.
func ResolveVectorBackend(indexName, apiKey string) VectorBackend {
	if strings.TrimSpace(indexName) != "" && strings.TrimSpace(apiKey) != "" {
		return VectorBackendRemote
	}
	return VectorBackendLocal
}

// DatabaseSettings holds relational store configuration.
type DatabaseSettings struct {
	// Path is the SQLite database file.
	Path string

	// URL is an optional postgres:// connection string; when set it wins over Path.
	URL string
}

// IsPostgres returns true if the settings select the Postgres backend.
func (d DatabaseSettings) IsPostgres() bool {
	return strings.HasPrefix(d.URL, "postgres://") || strings.HasPrefix(d.URL, "postgresql://")
}

// RetrievalSettings holds chunking and search defaults for the policy agent.
type RetrievalSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	// A negative value disables overlap.
	ChunkOverlap int

	// TopK is the number of snippets returned per question.
	TopK int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir is the root directory for config, prompts, index and database.
	DataDir string

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Vector holds vector store settings.
	Vector VectorStoreSettings

	// Database holds relational store settings.
	Database DatabaseSettings

	// Retrieval holds chunking and search defaults.
	Retrieval RetrievalSettings

	// Namespace is the default vector store partition.
	Namespace string
}

// Default provider models.
const (
	DefaultEmbeddingModel = "all-minilm"
	DefaultLLMModel       = "llama3.2"
)

// DefaultAppSettings returns settings with local-only defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		DataDir: "data",
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModel,
		},
		LLM: LLMSettings{
			Provider: AIProviderOllama,
			Model:    DefaultLLMModel,
		},
		Vector: VectorStoreSettings{
			Backend:  VectorBackendLocal,
			LocalDir: "data/vector_index",
		},
		Database: DatabaseSettings{
			Path: "data/customers.db",
		},
		Retrieval: RetrievalSettings{
			ChunkSize:    1000,
			ChunkOverlap: 200,
			TopK:         3,
		},
		Namespace: DefaultNamespace,
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"gemini-embedding-001": 3072,
		"text-embedding-004":   768,
	}
}
