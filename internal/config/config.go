// Package config resolves application settings from three layers, lowest
// precedence first: built-in defaults, the TOML config file in the data
// directory, and environment variables (optionally loaded from a .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/custodia-labs/supportdesk/internal/core/domain"
)

// Config file keys.
const (
	KeyLLMProvider       = "llm.provider"
	KeyLLMModel          = "llm.model"
	KeyLLMBaseURL        = "llm.base_url"
	KeyLLMAPIKey         = "llm.api_key"
	KeyEmbedProvider     = "embedding.provider"
	KeyEmbedModel        = "embedding.model"
	KeyEmbedBaseURL      = "embedding.base_url"
	KeyEmbedAPIKey       = "embedding.api_key"
	KeyVectorLocalDir    = "vector.local_dir"
	KeyVectorNamespace   = "vector.namespace"
	KeyDatabasePath      = "database.path"
	KeyChunkSize         = "index.chunk_size"
	KeyChunkOverlap      = "index.chunk_overlap"
	KeyTopK              = "retrieval.top_k"
	KeyLogLevel          = "log.level"
	KeyLogPretty         = "log.pretty"
	defaultEnvFile       = ".env"
	defaultVectorDirName = "vector_index"
	defaultDatabaseName  = "customers.db"
)

// Env holds settings read from the process environment.
type Env struct {
	DataDir   string `envconfig:"SUPPORTDESK_DATA_DIR"`
	LogLevel  string `envconfig:"SUPPORTDESK_LOG_LEVEL"`
	LogPretty bool   `envconfig:"SUPPORTDESK_LOG_PRETTY"`
	DBURL     string `envconfig:"SUPPORTDESK_DB_URL"`

	PineconeAPIKey     string `envconfig:"PINECONE_API_KEY"`
	PineconeIndex      string `envconfig:"PINECONE_INDEX"`
	PineconeControlURL string `envconfig:"PINECONE_CONTROL_URL"`

	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
}

// Reader is the read side of the config file store.
type Reader interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
}

// LoadEnv exports variables from envFile (or ./.env when envFile is empty
// and the file exists) and then processes the environment into Env.
// Variables already set in the environment are never overwritten.
func LoadEnv(envFile string) (Env, error) {
	path := strings.TrimSpace(envFile)
	if path != "" {
		if err := exportEnvironment(path); err != nil {
			return Env{}, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(defaultEnvFile); err != nil {
		return Env{}, fmt.Errorf("failed to load default env file: %w", err)
	}

	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, err
	}
	return env, nil
}

func exportEnvironmentIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(path)
}

func exportEnvironment(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, val := range v.AllSettings() {
		key := strings.ToUpper(k)
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}

// DataDir returns the data directory selected by the environment, or the
// default.
func DataDir(env Env) string {
	if env.DataDir != "" {
		return env.DataDir
	}
	return domain.DefaultAppSettings().DataDir
}

// Resolve merges defaults, the config file and the environment.
// file may be nil.
func Resolve(env Env, file Reader) domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.DataDir = DataDir(env)
	s.Vector.LocalDir = filepath.Join(s.DataDir, defaultVectorDirName)
	s.Database.Path = filepath.Join(s.DataDir, defaultDatabaseName)

	if file != nil {
		applyFile(&s, file)
	}

	s.LLM.APIKey = firstNonEmpty(providerKey(env, s.LLM.Provider), s.LLM.APIKey)
	s.Embedding.APIKey = firstNonEmpty(providerKey(env, s.Embedding.Provider), s.Embedding.APIKey)

	s.Vector.IndexName = env.PineconeIndex
	s.Vector.APIKey = env.PineconeAPIKey
	s.Vector.ControlURL = env.PineconeControlURL
	s.Vector.Backend = domain.ResolveVectorBackend(s.Vector.IndexName, s.Vector.APIKey)

	s.Database.URL = env.DBURL
	return s
}

func applyFile(s *domain.AppSettings, file Reader) {
	if v := file.GetString(KeyLLMProvider); v != "" {
		s.LLM.Provider = domain.AIProvider(v)
	}
	s.LLM.Model = firstNonEmpty(file.GetString(KeyLLMModel), s.LLM.Model)
	s.LLM.BaseURL = firstNonEmpty(file.GetString(KeyLLMBaseURL), s.LLM.BaseURL)
	s.LLM.APIKey = firstNonEmpty(file.GetString(KeyLLMAPIKey), s.LLM.APIKey)

	if v := file.GetString(KeyEmbedProvider); v != "" {
		s.Embedding.Provider = domain.AIProvider(v)
	}
	s.Embedding.Model = firstNonEmpty(file.GetString(KeyEmbedModel), s.Embedding.Model)
	s.Embedding.BaseURL = firstNonEmpty(file.GetString(KeyEmbedBaseURL), s.Embedding.BaseURL)
	s.Embedding.APIKey = firstNonEmpty(file.GetString(KeyEmbedAPIKey), s.Embedding.APIKey)

	s.Vector.LocalDir = firstNonEmpty(file.GetString(KeyVectorLocalDir), s.Vector.LocalDir)
	s.Namespace = firstNonEmpty(file.GetString(KeyVectorNamespace), s.Namespace)
	s.Database.Path = firstNonEmpty(file.GetString(KeyDatabasePath), s.Database.Path)

	if v := file.GetInt(KeyChunkSize); v > 0 {
		s.Retrieval.ChunkSize = v
	}
	if _, set := file.Get(KeyChunkOverlap); set {
		// Zero is an explicit "no overlap", distinct from an unset key.
		s.Retrieval.ChunkOverlap = file.GetInt(KeyChunkOverlap)
		if s.Retrieval.ChunkOverlap <= 0 {
			s.Retrieval.ChunkOverlap = -1
		}
	}
	if v := file.GetInt(KeyTopK); v > 0 {
		s.Retrieval.TopK = v
	}
}

// LogSettings returns the log level and pretty flag. The environment wins
// over the config file.
func LogSettings(env Env, file Reader) (level string, pretty bool) {
	level = env.LogLevel
	pretty = env.LogPretty
	if file != nil {
		level = firstNonEmpty(level, file.GetString(KeyLogLevel))
		pretty = pretty || file.GetBool(KeyLogPretty)
	}
	return level, pretty
}

// providerKey returns the credential for provider from the environment.
func providerKey(env Env, provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return env.OpenAIAPIKey
	case domain.AIProviderAnthropic:
		return env.AnthropicAPIKey
	case domain.AIProviderGemini:
		return env.GeminiAPIKey
	default:
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
