// Package generator turns requirement text into test cases with a hosted
// LLM: prompt construction, provider clients and reply cleanup.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/BerylCAtieno/requirements-testgen/internal/config"
	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

var (
	ErrMissingAPIKey = errors.New("an API key is required")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Generator is one configured connection to a model provider.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
	// ListModels returns the models that support content generation.
	ListModels(ctx context.Context) ([]string, error)
}

// Factory builds a Generator for the credential supplied with a request.
type Factory func(ctx context.Context, apiKey string) (Generator, error)

// NewFactory returns a Factory for the configured provider. An empty
// per-request key falls back to the key from the environment.
func NewFactory(cfg *config.Config, httpClient *http.Client, logger *utils.Logger) Factory {
	return func(ctx context.Context, apiKey string) (Generator, error) {
		switch cfg.GeneratorProvider {
		case config.ProviderOpenRouter:
			if apiKey == "" {
				apiKey = cfg.OpenRouterAPIKey
			}
			if apiKey == "" {
				return nil, ErrMissingAPIKey
			}
			return NewOpenRouterGenerator(OpenRouterConfig{
				APIKey:     apiKey,
				BaseURL:    cfg.OpenRouterBaseURL,
				HTTPClient: httpClient,
			}, logger), nil
		case config.ProviderGemini:
			if apiKey == "" {
				apiKey = cfg.GeminiAPIKey
			}
			if apiKey == "" {
				return nil, ErrMissingAPIKey
			}
			return NewGeminiGenerator(ctx, GeminiConfig{
				APIKey:     apiKey,
				BaseURL:    cfg.GeminiBaseURL,
				HTTPClient: httpClient,
			}, logger)
		default:
			return nil, fmt.Errorf("unknown generator provider %q", cfg.GeneratorProvider)
		}
	}
}
