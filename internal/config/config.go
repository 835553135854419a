package config

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration for the server and the CLI.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8787"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Inference
	LLMProvider    string        `env:"LLM_PROVIDER" envDefault:"ollama"` // "ollama" (native /api/generate) or "openai" (any OpenAI-compatible server)
	LLMEndpoint    string        `env:"LLM_ENDPOINT" envDefault:"http://localhost:11434/api/generate"`
	LLMModel       string        `env:"LLM_MODEL" envDefault:"qwen2.5:1.5b"`
	OpenAIKey      string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" envDefault:"http://localhost:11434/v1/"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"120s"`

	// Templates
	TemplatesFile string `env:"TEMPLATES_FILE"` // optional YAML catalog replacing the built-in one
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
