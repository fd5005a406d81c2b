package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Host     string `env:"HOST" envDefault:"0.0.0.0"`
	Port     int    `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"file"` // "file" (JSON files on disk) or "postgres"
	SavedDir      string `env:"SAVED_DIR" envDefault:"saved"`
	ResultsDir    string `env:"RESULTS_DIR" envDefault:"saved-results"`
	DBURL         string `env:"DB_URL"`

	// LLM. LLMProvider is "gemini" (Gemini API or Vertex) or "openai";
	// an empty LLMModel uses the provider default.
	LLMProvider         string `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMModel            string `env:"LLM_MODEL"`
	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	GoogleCloudProject  string `env:"GOOGLE_CLOUD_PROJECT"`
	GoogleCloudLocation string `env:"GOOGLE_CLOUD_LOCATION" envDefault:"us-central1"`
	OpenAIKey           string `env:"OPENAI_API_KEY"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
