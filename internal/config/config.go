package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Backend mode selects the query provider variant once at startup.
const (
	ModeLive    = "live"
	ModeFixture = "fixture"
)

// Config holds all process configuration. It is built once at startup and
// passed by reference into the services that need it; nothing reads the
// environment after Load returns.
type Config struct {
	// Mode is "live" (real index + models) or "fixture" (canned responses).
	Mode string

	// HTTP server
	ListenAddr string

	// Language model (OpenAI-compatible chat completions endpoint)
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	LLMTimeout time.Duration

	// Embedding provider (OpenAI-compatible embeddings endpoint)
	EmbeddingBaseURL string
	EmbeddingModel   string
	EmbeddingAPIKey  string
	EmbeddingDim     int

	// ChromaDB similarity index
	ChromaHost     string
	ChromaPort     int
	ChromaTenant   string
	ChromaDatabase string
	Collection     string

	// Redis document registry
	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	// Per-query deadline covering both network-bound stages
	QueryTimeout time.Duration

	// Ingestion job
	DataDir         string
	ChunkPercentile float64
}

// Load reads configuration from the environment, after loading a .env file
// if one is present. Missing values fall back to defaults; credential
// checks happen in Validate, not here.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Mode:             getEnv("STEELINTEL_MODE", ""),
		ListenAddr:       getEnv("STEELINTEL_ADDR", ":8080"),
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:         getEnv("LLM_MODEL", "gemini-pro"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		LLMTimeout:       getDurationEnv("LLM_TIMEOUT_SECONDS", 120*time.Second),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "embedding-001"),
		EmbeddingAPIKey:  getEnv("EMBEDDING_API_KEY", os.Getenv("LLM_API_KEY")),
		EmbeddingDim:     getIntEnv("EMBEDDING_DIM", 768),
		ChromaHost:       getEnv("CHROMA_HOST", "localhost"),
		ChromaPort:       getIntEnv("CHROMA_PORT", 8000),
		ChromaTenant:     getEnv("CHROMA_TENANT", "default_tenant"),
		ChromaDatabase:   getEnv("CHROMA_DATABASE", "default_database"),
		Collection:       getEnv("CHROMA_COLLECTION", "steel-index"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getIntEnv("REDIS_PORT", 6379),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getIntEnv("REDIS_DB", 0),
		QueryTimeout:     getDurationEnv("QUERY_TIMEOUT_SECONDS", 60*time.Second),
		DataDir:          getEnv("DATA_DIR", "./data"),
		ChunkPercentile:  getFloatEnv("CHUNK_PERCENTILE", 85),
	}

	// No mode requested: run live when credentials exist, otherwise fall
	// back to fixture responses so the server still comes up for demos.
	if cfg.Mode == "" {
		if cfg.LLMAPIKey != "" && cfg.EmbeddingAPIKey != "" {
			cfg.Mode = ModeLive
		} else {
			cfg.Mode = ModeFixture
		}
	}

	return cfg
}

// Validate fails fast on a partially configured process. A live backend
// without credentials or an index name must refuse to start rather than
// fail on the first query.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeFixture:
		return nil
	case ModeLive:
	default:
		return fmt.Errorf("unknown mode %q (expected %q or %q)", c.Mode, ModeLive, ModeFixture)
	}

	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required in live mode")
	}
	if c.EmbeddingAPIKey == "" {
		return fmt.Errorf("EMBEDDING_API_KEY is required in live mode")
	}
	if c.Collection == "" {
		return fmt.Errorf("CHROMA_COLLECTION is required in live mode")
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.EmbeddingDim)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}
