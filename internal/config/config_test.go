package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			// Parse and restore each env var
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Host", cfg.Host, "0.0.0.0"},
		{"Port", cfg.Port, 8000},
		{"LogLevel", cfg.LogLevel, "info"},
		{"StoreProvider", cfg.StoreProvider, "file"},
		{"SavedDir", cfg.SavedDir, "saved"},
		{"ResultsDir", cfg.ResultsDir, "saved-results"},
		{"LLMProvider", cfg.LLMProvider, "gemini"},
		{"LLMModel", cfg.LLMModel, ""},
		{"GoogleCloudLocation", cfg.GoogleCloudLocation, "us-central1"},
		{"MaxUploadSize", cfg.MaxUploadSize, int64(10485760)},
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
	// Save and restore env
	originalPort := os.Getenv("PORT")
	originalHost := os.Getenv("HOST")
	defer func() {
		os.Setenv("PORT", originalPort)
		os.Setenv("HOST", originalHost)
	}()

	// Set test values
	os.Setenv("PORT", "9090")
	os.Setenv("HOST", "127.0.0.1")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("expected host '127.0.0.1', got %s", cfg.Host)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	// Save and restore env
	originalLLM := os.Getenv("LLM_PROVIDER")
	originalStore := os.Getenv("STORE_PROVIDER")
	defer func() {
		os.Setenv("LLM_PROVIDER", originalLLM)
		os.Setenv("STORE_PROVIDER", originalStore)
	}()

	// Set test values
	os.Setenv("LLM_PROVIDER", "openai")
	os.Setenv("STORE_PROVIDER", "postgres")

	cfg := Load()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected LLM provider 'openai', got %s", cfg.LLMProvider)
	}
	if cfg.StoreProvider != "postgres" {
		t.Errorf("expected store provider 'postgres', got %s", cfg.StoreProvider)
	}
}
