package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// S3 archive of requirement files and generated suites
	S3Enabled         bool
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Model provider. API keys here are only defaults: the form sends its own.
	GeneratorProvider string
	GeminiAPIKey      string
	GeminiBaseURL     string
	OpenRouterAPIKey  string
	OpenRouterBaseURL string

	Models       []string
	DefaultModel string

	// Upload and generation limits
	MaxFileSize       int64
	GenerateRateLimit float64
	GenerateBurst     int
	GenerateTimeout   time.Duration
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/testgen.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Enabled:         getEnv("S3_ENABLED", "false") == "true",
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "test-suites"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",
		GeneratorProvider: getEnv("GENERATOR_PROVIDER", ProviderGemini),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", ""),
		OpenRouterAPIKey:  getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL: getEnv("OPENROUTER_BASE_URL", ""),
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 5<<20),
		GenerateRateLimit: getEnvAsFloat64("GENERATE_RATE_LIMIT", 1),
		GenerateBurst:     int(getEnvAsInt64("GENERATE_BURST", 3)),
		GenerateTimeout:   getEnvAsDuration("GENERATE_TIMEOUT", 2*time.Minute),
	}

	switch cfg.GeneratorProvider {
	case ProviderGemini, ProviderOpenRouter:
	default:
		return nil, fmt.Errorf("GENERATOR_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenRouter, cfg.GeneratorProvider)
	}

	catalog := DefaultCatalog(cfg.GeneratorProvider)
	if path := os.Getenv("MODELS_FILE"); path != "" {
		var err error
		if catalog, err = LoadCatalog(path); err != nil {
			return nil, err
		}
	}

	cfg.Models = catalog.Models
	cfg.DefaultModel = getEnv("DEFAULT_MODEL", catalog.Default)
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = cfg.Models[0]
	}
	if !slices.Contains(cfg.Models, cfg.DefaultModel) {
		return nil, fmt.Errorf("DEFAULT_MODEL %q is not in the model list", cfg.DefaultModel)
	}

	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	return cfg, nil
}

// DefaultAPIKey is the environment credential for the configured provider.
func (c *Config) DefaultAPIKey() string {
	if c.GeneratorProvider == ProviderOpenRouter {
		return c.OpenRouterAPIKey
	}
	return c.GeminiAPIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
