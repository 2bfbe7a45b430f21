package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog is the fixed list of model identifiers offered in the form.
type Catalog struct {
	Models  []string `yaml:"models"`
	Default string   `yaml:"default"`
}

var geminiModels = []string{
	"models/gemini-2.5-flash",
	"models/gemini-2.5-pro",
	"models/gemini-2.0-flash-exp",
	"models/gemini-2.0-flash",
	"models/gemini-2.0-flash-001",
	"models/gemini-2.0-flash-exp-image-generation",
	"models/gemini-2.0-flash-lite-001",
	"models/gemini-2.0-flash-lite",
	"models/gemini-2.0-flash-lite-preview-02-05",
	"models/gemini-2.0-flash-lite-preview",
	"models/gemini-exp-1206",
	"models/gemini-2.5-flash-preview-tts",
	"models/gemini-2.5-pro-preview-tts",
	"models/gemma-3-1b-it",
	"models/gemma-3-4b-it",
	"models/gemma-3-12b-it",
	"models/gemma-3-27b-it",
	"models/gemma-3n-e4b-it",
	"models/gemma-3n-e2b-it",
	"models/gemini-flash-latest",
	"models/gemini-flash-lite-latest",
	"models/gemini-pro-latest",
	"models/gemini-2.5-flash-lite",
	"models/gemini-2.5-flash-image-preview",
	"models/gemini-2.5-flash-image",
	"models/gemini-2.5-flash-preview-09-2025",
	"models/gemini-2.5-flash-lite-preview-09-2025",
	"models/gemini-3-pro-preview",
	"models/gemini-3-flash-preview",
	"models/gemini-3-pro-image-preview",
	"models/nano-banana-pro-preview",
	"models/gemini-robotics-er-1.5-preview",
	"models/gemini-2.5-computer-use-preview-10-2025",
	"models/deep-research-pro-preview-12-2025",
}

var openRouterModels = []string{
	"google/gemini-2.5-flash",
	"google/gemini-2.5-pro",
	"openai/gpt-4o-mini",
	"anthropic/claude-sonnet-4.5",
}

// DefaultCatalog returns the built-in models for a provider. The first
// entry is the default.
func DefaultCatalog(provider string) Catalog {
	models := geminiModels
	if provider == ProviderOpenRouter {
		models = openRouterModels
	}
	return Catalog{
		Models:  append([]string(nil), models...),
		Default: models[0],
	}
}

// LoadCatalog reads a YAML file of the form
//
//	models:
//	  - models/gemini-2.5-flash
//	default: models/gemini-2.5-flash
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to read models file: %w", err)
	}

	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("failed to parse models file %s: %w", path, err)
	}

	if len(catalog.Models) == 0 {
		return Catalog{}, fmt.Errorf("models file %s lists no models", path)
	}

	return catalog, nil
}
