package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"github.com/namin/arghi/internal/config"
	"github.com/namin/arghi/internal/highlighter"
	"github.com/namin/arghi/internal/llm"
	"github.com/namin/arghi/internal/logger"
	"github.com/namin/arghi/internal/store"
)

// Deps bundles common runtime dependencies for the server.
type Deps struct {
	Config      config.Config
	Log         *slog.Logger
	Store       store.Store
	LLM         llm.Client
	Highlighter *highlighter.Service
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// .env is optional; every setting has a default or can come from the
	// process environment.
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	st, err := buildStore(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	return Deps{
		Config:      cfg,
		Log:         log,
		Store:       st,
		LLM:         llmClient,
		Highlighter: highlighter.New(llmClient, cfg.LLMModel),
	}, nil
}

func buildStore(cfg config.Config, log *slog.Logger) (store.Store, error) {
	switch cfg.StoreProvider {
	case "file":
		log.Info("using file store", "saved_dir", cfg.SavedDir, "results_dir", cfg.ResultsDir)
		return store.NewFile(cfg.SavedDir, cfg.ResultsDir), nil
	case "postgres":
		if cfg.DBURL == "" {
			return nil, fmt.Errorf("DB_URL is required when STORE_PROVIDER=postgres")
		}
		db, err := store.NewPostgres(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
		}
		log.Info("using Postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("invalid STORE_PROVIDER: %s (valid options: file, postgres)", cfg.StoreProvider)
	}
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		// No credential check here: requests may carry their own API key.
		log.Info("using Gemini LLM client", "model", cfg.LLMModel,
			"api_key_set", cfg.GeminiAPIKey != "", "project", cfg.GoogleCloudProject)
		return llm.NewGeminiClient(llm.GeminiConfig{
			APIKey:   cfg.GeminiAPIKey,
			Project:  cfg.GoogleCloudProject,
			Location: cfg.GoogleCloudLocation,
			Model:    cfg.LLMModel,
		}), nil
	case "openai":
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel, "api_key_set", cfg.OpenAIKey != "")
		return llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel)), nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: gemini, openai)", cfg.LLMProvider)
	}
}
