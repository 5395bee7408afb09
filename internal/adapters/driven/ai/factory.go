// Package ai wires the embedding oracle, text oracle, vector store and
// prompt store from resolved application settings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/custodia-labs/supportdesk/internal/adapters/driven/config/file"
	genaiembed "github.com/custodia-labs/supportdesk/internal/adapters/driven/embedding/genai"
	ollamaembed "github.com/custodia-labs/supportdesk/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/supportdesk/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/supportdesk/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/supportdesk/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/supportdesk/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/supportdesk/internal/adapters/driven/vector"
	"github.com/custodia-labs/supportdesk/internal/core/domain"
	"github.com/custodia-labs/supportdesk/internal/core/ports/driven"
	"github.com/custodia-labs/supportdesk/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitOptions controls service initialisation.
type InitOptions struct {
	// Validate pings both oracles before returning.
	Validate bool
}

// InitResult holds the explicitly constructed oracles and stores.
// Callers own it and must Close it on exit.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorStore      driven.VectorStore
	PromptStore      driven.PromptStore // User-customisable prompt templates.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() error {
	var errs []error
	if r.VectorStore != nil {
		errs = append(errs, r.VectorStore.Close())
	}
	if r.EmbeddingService != nil {
		errs = append(errs, r.EmbeddingService.Close())
	}
	if r.LLMService != nil {
		errs = append(errs, r.LLMService.Close())
	}
	return errors.Join(errs...)
}

// Init constructs every AI-facing dependency from settings. A failure in
// any step closes what was already built.
func Init(ctx context.Context, settings domain.AppSettings, opts InitOptions) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	result.EmbeddingService = embedder

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	result.LLMService = llm

	if opts.Validate {
		if err := validate(ctx, result); err != nil {
			result.Close()
			return nil, err
		}
	}

	store, err := vector.New(ctx, settings.Vector, embedder)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorStore = store

	prompts, err := file.NewPromptStore(filepath.Join(settings.DataDir, "prompts"))
	if err != nil {
		result.Close()
		return nil, err
	}
	result.PromptStore = prompts

	logger.Debug("ai: embedding=%s llm=%s vector=%s",
		embedder.ModelName(), llm.ModelName(), store.Backend())
	return result, nil
}

func validate(ctx context.Context, r *InitResult) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.EmbeddingService.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	if err := r.LLMService.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("embedding settings: %w", domain.ErrInvalidInput)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %s requires an API key", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderGemini:
		return createGeminiEmbedding(ctx, settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama, openai or gemini")

	default:
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}

// CreateLLMService creates the text generation service selected by settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, fmt.Errorf("llm settings: %w", domain.ErrInvalidInput)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("llm provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("llm provider %s requires an API key", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("llm provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: domain.EmbeddingDimensions()[settings.Model],
	})
}

func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	model := settings.Model
	if model == domain.DefaultEmbeddingModel {
		// The local default has no OpenAI counterpart.
		model = ""
	}
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      model,
		Dimensions: domain.EmbeddingDimensions()[model],
	})
}

func createGeminiEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	model := settings.Model
	if model == domain.DefaultEmbeddingModel {
		model = ""
	}
	return genaiembed.NewEmbeddingService(ctx, genaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   model,
	})
}

func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	model := settings.Model
	if model == domain.DefaultLLMModel {
		model = ""
	}
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   model,
	})
}

func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	model := settings.Model
	if model == domain.DefaultLLMModel {
		model = ""
	}
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   model,
	})
}
