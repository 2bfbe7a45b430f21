package generator

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"google.golang.org/genai"

	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

// GeminiConfig configures the Gemini client. BaseURL overrides the API
// endpoint and is mostly useful in tests.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type geminiGenerator struct {
	client *genai.Client
	logger *utils.Logger
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig, logger *utils.Logger) (Generator, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to configure Gemini client: %w", err)
	}

	return &geminiGenerator{client: client, logger: logger}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	start := time.Now()

	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Error("Gemini request failed", "model", model, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := resp.Text()

	g.logger.Info("Gemini response received",
		"model", model,
		"prompt_length", len(prompt),
		"response_length", len(text),
		"elapsed_ms", time.Since(start).Milliseconds())

	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

func (g *geminiGenerator) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		if slices.Contains(m.SupportedActions, "generateContent") {
			names = append(names, m.Name)
		}
	}
	return names, nil
}
