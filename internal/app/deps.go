package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"textlens/internal/config"
	"textlens/internal/llm"
	"textlens/internal/logger"
	"textlens/internal/overlay"
	"textlens/internal/pipeline"
	"textlens/internal/prompt"
)

// Deps bundles common runtime dependencies for the server and the CLI.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	LLM      llm.Client
	Catalog  *prompt.Catalog
	Overlay  *overlay.Hub
	Pipeline *pipeline.Pipeline
}

// Build loads config and shared components for the server.
func Build() (Deps, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Deps{}, err
	}
	return BuildWith(cfg, logger.New(cfg.LogLevel))
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	return config.Load(), nil
}

// BuildWith wires components from an already loaded config.
func BuildWith(cfg config.Config, log *slog.Logger) (Deps, error) {
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	catalog, err := buildCatalog(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load templates: %w", err)
	}
	hub := overlay.NewHub(log)
	return Deps{
		Config:   cfg,
		Log:      log,
		LLM:      llmClient,
		Catalog:  catalog,
		Overlay:  hub,
		Pipeline: pipeline.New(log, llmClient, catalog, hub, cfg.RequestTimeout),
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "ollama":
		client, err := llm.NewOllamaClient(cfg.LLMEndpoint, cfg.LLMModel, cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Ollama client: %w", err)
		}
		log.Info("using Ollama generate endpoint", "endpoint", cfg.LLMEndpoint, "model", cfg.LLMModel)
		return client, nil
	case "openai":
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, openai.ChatModel(cfg.LLMModel), cfg.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI-compatible endpoint", "base_url", cfg.OpenAIBaseURL, "model", cfg.LLMModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: ollama, openai)", cfg.LLMProvider)
	}
}

func buildCatalog(cfg config.Config, log *slog.Logger) (*prompt.Catalog, error) {
	catalog := prompt.Default()
	if cfg.TemplatesFile != "" {
		loaded, err := prompt.Load(cfg.TemplatesFile)
		if err != nil {
			return nil, err
		}
		catalog = loaded
		log.Info("using templates file", "path", cfg.TemplatesFile, "count", catalog.Len())
	}
	for _, t := range catalog.All() {
		if !t.HasPlaceholder() {
			log.Warn("template has no placeholder; selection will not be sent", "template", t.ID, "placeholder", prompt.Placeholder)
		}
	}
	return catalog, nil
}
