package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		assert.NoError(t, result.Close())
	})
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantErr     bool
		errIs       error
		errContains string
		wantModel   string
	}{
		{
			name:    "nil settings",
			wantErr: true,
			errIs:   domain.ErrInvalidInput,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
			wantModel: "nomic-embed-text",
		},
		{
			name: "openai provider replaces local default model",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    domain.DefaultEmbeddingModel,
			},
			wantModel: "text-embedding-3-small",
		},
		{
			name: "gemini provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderGemini,
				APIKey:   "test-key",
			},
			wantModel: "gemini-embedding-001",
		},
		{
			name: "openai without key",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantErr:     true,
			errContains: "requires an API key",
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantErr:     true,
			errContains: "anthropic does not support embeddings",
		},
		{
			name: "unknown provider",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantErr: true,
			errIs:   domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(context.Background(), tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantErr   bool
		errIs     error
		wantModel string
	}{
		{
			name:    "nil settings",
			wantErr: true,
			errIs:   domain.ErrInvalidInput,
		},
		{
			name: "ollama provider uses configured model",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				Model:    "mistral",
			},
			wantModel: "mistral",
		},
		{
			name: "openai provider replaces local default model",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    domain.DefaultLLMModel,
			},
			wantModel: "gpt-4o-mini",
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantModel: "claude-3-5-haiku-latest",
		},
		{
			name: "gemini is not a text provider",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderGemini,
				APIKey:   "test-key",
			},
			wantErr: true,
			errIs:   domain.ErrUnsupportedType,
		},
		{
			name: "anthropic without key",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					assert.ErrorIs(t, err, tt.errIs)
				}
				return
			}
			require.NoError(t, err)
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestInit_LocalDefaults(t *testing.T) {
	dataDir := t.TempDir()
	settings := domain.DefaultAppSettings()
	settings.DataDir = dataDir
	settings.Vector.LocalDir = filepath.Join(dataDir, "vector_index")

	result, err := Init(context.Background(), settings, InitOptions{})
	require.NoError(t, err)
	defer result.Close()

	assert.Equal(t, domain.VectorBackendLocal, result.VectorStore.Backend())
	assert.Equal(t, domain.DefaultEmbeddingModel, result.EmbeddingService.ModelName())
	assert.Equal(t, domain.DefaultLLMModel, result.LLMService.ModelName())
	require.NotNil(t, result.PromptStore)
}

func TestInit_ValidateFailsWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dataDir := t.TempDir()
	settings := domain.DefaultAppSettings()
	settings.DataDir = dataDir
	settings.Vector.LocalDir = filepath.Join(dataDir, "vector_index")
	settings.Embedding.BaseURL = server.URL
	settings.LLM.BaseURL = server.URL

	_, err := Init(context.Background(), settings, InitOptions{Validate: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestInit_BadEmbeddingProvider(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.DataDir = t.TempDir()
	settings.Embedding.Provider = domain.AIProviderAnthropic
	settings.Embedding.APIKey = "key"

	_, err := Init(context.Background(), settings, InitOptions{})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
