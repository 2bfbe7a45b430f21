package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "PORT", "GEMINI_API_KEY", "GOOGLE_API_KEY", "GENERATOR_PROVIDER", "DEFAULT_MODEL",
		"MODELS_FILE", "MAX_FILE_SIZE", "GENERATE_TIMEOUT", "S3_ENABLED")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ProviderGemini, cfg.GeneratorProvider)
	assert.Equal(t, "models/gemini-2.5-flash", cfg.DefaultModel)
	assert.Len(t, cfg.Models, 34)
	assert.Equal(t, int64(5<<20), cfg.MaxFileSize)
	assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	assert.False(t, cfg.S3Enabled)
	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", ProviderOpenRouter)
	t.Setenv("DEFAULT_MODEL", "openai/gpt-4o-mini")
	t.Setenv("GENERATE_TIMEOUT", "30s")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("S3_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o-mini", cfg.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.GenerateTimeout)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.True(t, cfg.S3Enabled)
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("GENERATOR_PROVIDER", "llama-on-a-toaster")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDefaultModel(t *testing.T) {
	t.Setenv("DEFAULT_MODEL", "models/not-listed")

	_, err := Load()
	assert.ErrorContains(t, err, "models/not-listed")
}

func TestLoadModelsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models:\n  - models/a\n  - models/b\ndefault: models/b\n"), 0o644))
	t.Setenv("MODELS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"models/a", "models/b"}, cfg.Models)
	assert.Equal(t, "models/b", cfg.DefaultModel)
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCatalog(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("models: []\n"), 0o644))
	_, err = LoadCatalog(empty)
	assert.ErrorContains(t, err, "no models")
}

func TestDefaultCatalogIsACopy(t *testing.T) {
	c := DefaultCatalog(ProviderGemini)
	c.Models[0] = "changed"

	assert.Equal(t, "models/gemini-2.5-flash", DefaultCatalog(ProviderGemini).Models[0])
}

func TestDefaultAPIKey(t *testing.T) {
	cfg := &Config{GeneratorProvider: ProviderGemini, GeminiAPIKey: "g", OpenRouterAPIKey: "o"}
	assert.Equal(t, "g", cfg.DefaultAPIKey())

	cfg.GeneratorProvider = ProviderOpenRouter
	assert.Equal(t, "o", cfg.DefaultAPIKey())
}
