package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textlens/internal/config"
	"textlens/internal/llm"
)

func testLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig() config.Config {
	return config.Config{
		LLMProvider:    "ollama",
		LLMEndpoint:    "http://localhost:11434/api/generate",
		LLMModel:       "qwen2.5:1.5b",
		OpenAIBaseURL:  "http://localhost:11434/v1/",
		RequestTimeout: time.Second,
	}
}

func TestBuildWithOllama(t *testing.T) {
	deps, err := BuildWith(baseConfig(), testLog())
	require.NoError(t, err)

	assert.IsType(t, &llm.OllamaClient{}, deps.LLM)
	assert.Equal(t, 3, deps.Catalog.Len())
	assert.NotNil(t, deps.Pipeline)
	assert.NotNil(t, deps.Overlay)
}

func TestBuildWithOpenAI(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = "openai"

	deps, err := BuildWith(cfg, testLog())
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAIClient{}, deps.LLM)
}

func TestBuildWithInvalidProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.LLMProvider = "stub"

	_, err := BuildWith(cfg, testLog())
	assert.ErrorContains(t, err, "invalid LLM_PROVIDER")
}

func TestBuildWithTemplatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	data := "templates:\n  - id: tldr\n    label: TL;DR\n    body: \"{{TEXT}}\"\n  - id: fixed\n    label: Fixed\n    body: \"no slot\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg := baseConfig()
	cfg.TemplatesFile = path

	deps, err := BuildWith(cfg, testLog())
	require.NoError(t, err)
	assert.Equal(t, 2, deps.Catalog.Len())
}

func TestBuildWithMissingTemplatesFile(t *testing.T) {
	cfg := baseConfig()
	cfg.TemplatesFile = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := BuildWith(cfg, testLog())
	assert.Error(t, err)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_MODEL=llama3.2:3b\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "llama3.2:3b", cfg.LLMModel)
}

func TestLoadConfigWithoutDotEnv(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadConfig()
	assert.NoError(t, err)
}
