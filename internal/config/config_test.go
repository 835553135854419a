package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "LLM_PROVIDER", "LLM_ENDPOINT", "LLM_MODEL", "REQUEST_TIMEOUT", "TEMPLATES_FILE", "OPENAI_BASE_URL", "MAX_UPLOAD_SIZE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8787},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LLMProvider", cfg.LLMProvider, "ollama"},
		{"LLMEndpoint", cfg.LLMEndpoint, "http://localhost:11434/api/generate"},
		{"LLMModel", cfg.LLMModel, "qwen2.5:1.5b"},
		{"OpenAIBaseURL", cfg.OpenAIBaseURL, "http://localhost:11434/v1/"},
		{"RequestTimeout", cfg.RequestTimeout, 120 * time.Second},
		{"MaxUploadSize", cfg.MaxUploadSize, int64(10485760)},
		{"TemplatesFile", cfg.TemplatesFile, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_MODEL", "llama3.2")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
	if cfg.LLMModel != "llama3.2" {
		t.Errorf("expected model 'llama3.2', got %s", cfg.LLMModel)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.RequestTimeout)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")

	cfg := Load()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected LLM provider 'openai', got %s", cfg.LLMProvider)
	}
}
