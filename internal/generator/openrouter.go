package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerylCAtieno/requirements-testgen/internal/utils"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

type OpenRouterConfig struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type openRouterGenerator struct {
	apiKey  string
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Code    any    `json:"code"`
}

type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

func NewOpenRouterGenerator(cfg OpenRouterConfig, logger *utils.Logger) Generator {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	return &openRouterGenerator{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		logger:  logger,
		client:  client,
	}
}

func (g *openRouterGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	jsonData, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := g.do(req)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("OpenRouter API error: %s", resp.Error.Message)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *openRouterGenerator) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	body, err := g.do(req)
	if err != nil {
		return nil, err
	}

	var resp modelsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal models: %w", err)
	}

	names := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		names = append(names, m.ID)
	}
	return names, nil
}

func (g *openRouterGenerator) do(req *http.Request) ([]byte, error) {
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	g.logger.Info("OpenRouter response received",
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("OpenRouter API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode)
	}

	return body, nil
}
