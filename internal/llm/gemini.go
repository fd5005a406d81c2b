package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com"
	cloudPlatform = "https://www.googleapis.com/auth/cloud-platform"
	defaultGemini = "gemini-2.5-flash"
)

// GeminiConfig selects one of two authentication modes: a Gemini API key, or
// a Google Cloud project/location pair served through Vertex AI with
// application default credentials. Neither is required at construction time;
// a caller-supplied key on the request can still satisfy a call.
type GeminiConfig struct {
	APIKey   string
	Project  string
	Location string
	Model    string
}

// GeminiClient calls the generateContent endpoint over plain HTTP.
type GeminiClient struct {
	hc       *http.Client
	apiKey   string
	project  string
	location string
	model    string
	tokens   oauth2.TokenSource
	tokenErr error
}

// NewGeminiClient builds a client. Credential resolution happens per call, so
// construction never fails on missing configuration.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = defaultGemini
	}
	if cfg.Location == "" {
		cfg.Location = "us-central1"
	}
	c := &GeminiClient{
		// No client timeout: calls run until the transport gives up.
		hc:       &http.Client{},
		apiKey:   cfg.APIKey,
		project:  cfg.Project,
		location: cfg.Location,
		model:    cfg.Model,
	}
	if cfg.Project != "" {
		c.tokens, c.tokenErr = google.DefaultTokenSource(context.Background(), cloudPlatform)
	}
	return c
}

// Request/response wire structs, minimal fields only.
type geminiPart struct {
	Text string `json:"text"`
}
type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}
type geminiGenerationConfig struct {
	Temperature *float64 `json:"temperature,omitempty"`
}
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	endpoint, authorize, err := c.resolve(req.APIKey, model)
	if err != nil {
		return "", err
	}

	temp := req.Temperature
	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
		GenerationConfig: &geminiGenerationConfig{Temperature: &temp},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if err := authorize(httpReq); err != nil {
		return "", err
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		slurp, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("gemini: upstream %d: %s", resp.StatusCode, strings.TrimSpace(string(slurp)))
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}
	var out strings.Builder
	if len(parsed.Candidates) > 0 {
		for _, p := range parsed.Candidates[0].Content.Parts {
			out.WriteString(p.Text)
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("empty response from LLM")
	}
	return out.String(), nil
}

// resolve picks the endpoint and auth for a call: caller-supplied key first,
// then the configured key, then the Vertex project/location pair.
func (c *GeminiClient) resolve(overrideKey, model string) (string, func(*http.Request) error, error) {
	key := overrideKey
	if key == "" {
		key = c.apiKey
	}
	if key != "" {
		endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", geminiBaseURL, url.PathEscape(model))
		return endpoint, func(r *http.Request) error {
			r.Header.Set("x-goog-api-key", key)
			return nil
		}, nil
	}
	if c.project != "" {
		if c.tokenErr != nil {
			return "", nil, fmt.Errorf("%w (vertex credentials: %v)", ErrNotConfigured, c.tokenErr)
		}
		endpoint := fmt.Sprintf(
			"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:generateContent",
			c.location, url.PathEscape(c.project), url.PathEscape(c.location), url.PathEscape(model))
		return endpoint, func(r *http.Request) error {
			tok, err := c.tokens.Token()
			if err != nil {
				return fmt.Errorf("gemini: vertex token: %w", err)
			}
			tok.SetAuthHeader(r)
			return nil
		}, nil
	}
	return "", nil, ErrNotConfigured
}
