package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no usable credential can be resolved for
// a generation call. Handlers map it to a client error.
var ErrNotConfigured = errors.New("no LLM configuration found: provide a Gemini API key or set GOOGLE_CLOUD_PROJECT")

// Request is a single text-generation call.
type Request struct {
	Prompt string
	// Model overrides the provider's configured model when non-empty.
	Model string
	// APIKey is an optional caller-supplied credential for this call only.
	// It takes precedence over the provider's configured credentials.
	APIKey string
	// Temperature is passed through to the provider as-is.
	Temperature float64
}

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
