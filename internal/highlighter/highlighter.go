// Package highlighter scores sentences of a text by their relevance to a
// question using an LLM and assembles the scored result.
package highlighter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/namin/arghi/internal/llm"
	"github.com/namin/arghi/internal/splitter"
)

// SentenceScore is one sentence of the source text with its relevance score.
// Index is the zero-based position in the split sequence.
type SentenceScore struct {
	Index     int     `json:"index"`
	Text      string  `json:"text"`
	Score     float64 `json:"score"`
	Rationale *string `json:"rationale"`
}

// Response is the scored result for one text/question pair. Hash is assigned
// after persistence and omitted until then.
type Response struct {
	Sentences []SentenceScore `json:"sentences"`
	Question  string          `json:"question"`
	Hash      string          `json:"hash,omitempty"`
}

// ParseError reports an LLM reply that could not be parsed as JSON. Raw holds
// the offending text for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse LLM response as JSON: %v\nResponse: %s", e.Err, e.Raw)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Service orchestrates split + score for one request.
type Service struct {
	llm   llm.Client
	model string
}

func New(client llm.Client, model string) *Service {
	return &Service{llm: client, model: model}
}

// Highlight splits text and scores each sentence against the question.
// apiKey is an optional caller-supplied credential for the LLM call. Text
// that splits into zero sentences short-circuits to an empty response
// without touching the LLM.
func (s *Service) Highlight(ctx context.Context, text, question, apiKey string) (Response, error) {
	sentences := splitter.Split(text)
	resp := Response{
		Sentences: make([]SentenceScore, 0, len(sentences)),
		Question:  question,
	}
	if len(sentences) == 0 {
		return resp, nil
	}

	scored, err := s.score(ctx, sentences, question, apiKey)
	if err != nil {
		return Response{}, err
	}
	resp.Sentences = scored
	return resp, nil
}

const scoringPrompt = `You are analyzing a text to find parts relevant to a specific question.

QUESTION: %s

TEXT (numbered sentences):
%s

For each sentence, score its relevance to answering the question on a scale of 0.0 to 1.0:
- 0.0 = completely irrelevant
- 0.3 = tangentially related
- 0.5 = somewhat relevant
- 0.7 = relevant
- 1.0 = directly answers or is crucial to the question

Return a JSON object with this exact format:
{
  "scores": [
    {"index": 1, "score": 0.8, "rationale": "brief reason"},
    {"index": 2, "score": 0.2, "rationale": "brief reason"},
    ...
  ]
}

Include ALL sentences. Be precise with scores - most sentences should be low (0.0-0.3) unless truly relevant.
Return ONLY the JSON, no other text.`

// scoreItem is one entry of the model's scores array. Index is 1-based on
// the wire. A missing score field decodes to 0.
type scoreItem struct {
	Index     int     `json:"index"`
	Score     float64 `json:"score"`
	Rationale *string `json:"rationale"`
}

// score asks the LLM for one score per sentence and reconciles the reply
// against the original sequence by index. Sentences the model skipped get
// score 0.0 and no rationale; extra or out-of-order entries are tolerated.
func (s *Service) score(ctx context.Context, sentences []string, question, apiKey string) ([]SentenceScore, error) {
	var numbered strings.Builder
	for i, sentence := range sentences {
		if i > 0 {
			numbered.WriteByte('\n')
		}
		fmt.Fprintf(&numbered, "%d. %s", i+1, sentence)
	}
	prompt := fmt.Sprintf(scoringPrompt, question, numbered.String())

	raw, err := s.llm.Generate(ctx, llm.Request{
		Prompt:      prompt,
		Model:       s.model,
		APIKey:      apiKey,
		Temperature: 0.0,
	})
	if err != nil {
		return nil, err
	}

	cleaned := stripFence(raw)
	var parsed struct {
		Scores []scoreItem `json:"scores"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, &ParseError{Raw: cleaned, Err: err}
	}

	byIndex := make(map[int]scoreItem, len(parsed.Scores))
	for _, item := range parsed.Scores {
		byIndex[item.Index] = item
	}

	result := make([]SentenceScore, len(sentences))
	for i, sentence := range sentences {
		item := byIndex[i+1]
		result[i] = SentenceScore{
			Index:     i,
			Text:      sentence,
			Score:     item.Score,
			Rationale: item.Rationale,
		}
	}
	return result, nil
}

// stripFence removes a markdown code fence (``` or ```json) wrapping the
// model's reply, a common failure mode when asking for bare JSON.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSuffix(s, "\n")
	return s
}
